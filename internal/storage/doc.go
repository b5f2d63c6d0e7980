package storage

// Package storage provides a minimal persistence layer used by the bot.
//
// It currently supports:
//   - Point-log write history (which scores landed in which sheet row)
//   - Sample dedup state so the auto-sync job survives restarts
