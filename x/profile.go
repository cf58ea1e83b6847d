/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"runtime"

	"github.com/golang/glog"
	"github.com/pkg/profile"
	"github.com/spf13/viper"
)

type stopper interface {
	Stop()
}

// StartProfile starts the profiler named by the profile_mode flag. Profiles are written to
// profile_path, or to a temporary directory when that is empty.
func StartProfile(conf *viper.Viper) stopper {
	opts := []func(*profile.Profile){profile.Quiet}
	if dir := conf.GetString("profile_path"); dir != "" {
		opts = append(opts, profile.ProfilePath(dir))
	}
	profileMode := conf.GetString("profile_mode")
	switch profileMode {
	case "cpu":
		return profile.Start(append(opts, profile.CPUProfile)...)
	case "mem":
		return profile.Start(append(opts, profile.MemProfile)...)
	case "mutex":
		return profile.Start(append(opts, profile.MutexProfile)...)
	case "block":
		blockRate := conf.GetInt("block_rate")
		runtime.SetBlockProfileRate(blockRate)
		return profile.Start(append(opts, profile.BlockProfile)...)
	case "":
		// do nothing
		return noOpStopper{}
	default:
		glog.Fatalf("Invalid profile mode: %q", profileMode)
		return noOpStopper{}
	}
}

type noOpStopper struct{}

func (noOpStopper) Stop() {}
