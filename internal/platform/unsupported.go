//go:build !darwin && !windows

package platform

import "log/slog"

func newPlatform(logger *slog.Logger) (Platform, error) {
	return nil, ErrUnsupportedPlatform
}
