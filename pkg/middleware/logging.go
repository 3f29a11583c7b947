package middleware

import (
	"log/slog"

	"github.com/wayfind-go/wayfind/pkg/router"
)

// Logging instruments a router with structured navigation logging.
// If logger is nil, slog.Default() is used.
//
// The returned function unhooks the instrumentation.
func Logging(rt *router.Router, logger *slog.Logger) func() {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "navigation")

	unBefore := rt.OnBeforeNavigation(func(current, pending *router.Route) {
		logger.Debug("navigation started",
			"to", pending.FullPath,
			"from", fullPathOrEmpty(current),
			"action", string(pending.Action),
		)
	})

	unChanged := rt.OnNavigationChanged(func(outgoing, committed *router.Route) {
		logger.Info("navigation committed",
			"to", committed.FullPath,
			"from", fullPathOrEmpty(outgoing),
			"route", committed.Name,
		)
	})

	unError := rt.OnError(func(err error) {
		logger.Warn("navigation failed", "error", err)
	})

	return func() {
		unBefore()
		unChanged()
		unError()
	}
}

func fullPathOrEmpty(r *router.Route) string {
	if r == nil {
		return ""
	}
	return r.FullPath
}
