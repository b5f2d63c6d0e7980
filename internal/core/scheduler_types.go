package core

import sch "shiftbot/internal/services/scheduler"

// Re-export scheduler types for plugin SDK (plugins cannot import internal/services/scheduler).
type JobHistoryItem = sch.HistoryItem
