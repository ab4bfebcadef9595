package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/trackr/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or reset the request cache",
}

var cacheDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Show cached endpoints and counters",
	Args:  cobra.NoArgs,
	RunE:  runCacheDump,
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Remove expired entries from the cache file",
	Args:  cobra.NoArgs,
	RunE:  runCacheFlush,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cache file",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheDumpCmd)
	cacheCmd.AddCommand(cacheFlushCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func (s *session) loadCache() *cache.Cache {
	return cache.Load(s.cfg.Cache.File,
		cache.WithExpire(s.cfg.CacheExpire()),
		cache.WithLogger(s.logger),
	)
}

func runCacheDump(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	c := s.loadCache()
	s.printer.CacheStats(c.Dump())
	for _, key := range c.Keys() {
		fmt.Fprintln(s.printer.Out(), "  "+key)
	}
	return nil
}

func runCacheFlush(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	c := s.loadCache()
	removed := c.Flush()
	if err := c.Save(s.cfg.Cache.File); err != nil {
		return err
	}
	s.printer.Success(fmt.Sprintf("removed %d expired entries", removed))
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	if err := cache.Remove(s.cfg.Cache.File); err != nil {
		return err
	}
	s.printer.Success("removed " + s.cfg.Cache.File)
	return nil
}
