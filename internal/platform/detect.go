package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using runtime and gopsutil.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect returns OS and architecture from the runtime and, on Linux, the
// distribution reported by gopsutil.
//
// A failed distro lookup is not an error: the launcher only uses the family
// to prefer a terminal emulator. A cancelled context is.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	return detect(ctx, runtime.GOOS, runtime.GOARCH, host.PlatformInformationWithContext)
}

type distroLookup func(ctx context.Context) (platform, family, version string, err error)

func detect(ctx context.Context, goos, goarch string, lookup distroLookup) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("platform detection cancelled: %w", err)
	}

	info := &Info{
		OS:      goos,
		Arch:    normalizeArch(goarch),
		ArchRaw: goarch,
	}

	if goos != "linux" {
		return info, nil
	}

	platform, family, version, err := lookup(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	platform = normalizePlatform(platform)
	if platform != "" {
		info.Platform = platform
		info.Family = mapFamily(family)
		info.Version = normalizePlatform(version)
	}

	return info, nil
}
