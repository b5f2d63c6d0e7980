// Package scheduler provides an in-process task scheduler used by bot
// services and plugins.
//
// Jobs are registered under a logical name (e.g. "ptlog:auto"). Names are
// stable and human readable so that tasks can be replaced (upserted) and
// removed deterministically. Schedules are cron expressions (5-field or
// descriptors like "@hourly"), intervals via AddInterval, or daily HH:MM
// times via AddDaily, all evaluated in the configured time zone.
//
// Jobs run on a small worker pool with a per-run timeout and a single
// retry. The service can be started and stopped at runtime (config hot
// reload); a timezone change restarts the underlying cron with the
// registered definitions intact.
package scheduler
