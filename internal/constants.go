/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import "time"

const (
	UserAgent   = "golfscore/0.3.0 (+https://github.com/mikeb26/golfscore)"
	CacheBucket = "bopmatic-golfscore-prod-cache"

	// course scorecards change rarely
	ScorecardMaxAge = 30 * 24 * time.Hour

	// reference input policy; the scoring engine itself does not enforce these
	MinPlayers = 2
	MinHoles   = 1
	MaxHoles   = 18
	MinPar     = 3
	MaxPar     = 5
)
