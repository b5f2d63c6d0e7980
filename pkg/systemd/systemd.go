// Package systemd wraps sd_notify integration for running under a
// systemd service unit with Type=notify. All calls are no-ops outside
// systemd (NOTIFY_SOCKET unset).
package systemd

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// NotifyReady tells systemd the service finished starting up.
// Returns false when not running under systemd.
func NotifyReady() (bool, error) {
	return daemon.SdNotify(false, daemon.SdNotifyReady)
}

// NotifyStopping tells systemd a clean shutdown began.
func NotifyStopping() (bool, error) {
	return daemon.SdNotify(false, daemon.SdNotifyStopping)
}

// NotifyStatus publishes a one-line status visible in systemctl status.
func NotifyStatus(status string) (bool, error) {
	return daemon.SdNotify(false, "STATUS="+fmt.Sprintf("%.256s", status))
}

// WatchdogLoop pets the systemd watchdog at half the configured interval
// until ctx is done. It returns immediately when the unit has no
// WatchdogSec set.
func WatchdogLoop(ctx context.Context) error {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		return err
	}
	if interval <= 0 {
		return nil
	}

	t := time.NewTicker(interval / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
				return err
			}
		}
	}
}
