package main

import (
	"strings"
	"time"

	"github.com/vibescript/vibescript/pkg/capability"
)

func parseCapabilitiesCSV(csv string) capability.Set {
	caps := capability.NewSet()
	for _, name := range strings.Split(csv, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if c, ok := capability.ParseCapability(name); ok {
			caps = caps.With(c)
		}
	}
	return caps
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
