/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package leaderboard

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/gregjones/httpcache"
	"github.com/mikeb26/golfscore/course"
	"github.com/mikeb26/golfscore/scorecard"
	log "github.com/sirupsen/logrus"
)

const keyPrefix = "leaderboard/v1/"

// Engine memoizes Compute in a cache keyed by a hash of its inputs. It
// returns exactly what Compute returns; the cache only saves the work.
type Engine struct {
	cache httpcache.Cache
}

// NewEngine returns an Engine backed by cache, or by an in-memory cache if
// cache is nil.
func NewEngine(cache httpcache.Cache) *Engine {
	if cache == nil {
		cache = httpcache.NewMemoryCache()
	}
	return &Engine{cache: cache}
}

func (e *Engine) Compute(players []string, scores *scorecard.Table,
	c course.Course) Leaderboard {

	key := Key(players, scores, c)
	if data, ok := e.cache.Get(key); ok {
		var lb Leaderboard
		err := json.Unmarshal(data, &lb)
		if err == nil {
			return lb
		}
		log.Warnf("leaderboard.engine: dropping corrupt cache entry %v: %v",
			key, err)
		e.cache.Delete(key)
	}

	lb := Compute(players, scores, c)
	data, err := json.Marshal(lb)
	if err != nil {
		log.Warnf("leaderboard.engine: failed to encode %v: %v", key, err)
		return lb
	}
	e.cache.Set(key, data)

	return lb
}

// Key hashes everything Compute depends on: player order, pars and every
// score.
func Key(players []string, scores *scorecard.Table, c course.Course) string {
	h := sha256.New()
	for _, p := range players {
		io.WriteString(h, "p"+strconv.Quote(p)+"\n")
	}
	for _, hole := range c {
		fmt.Fprintf(h, "h%d=%d\n", hole.Number, hole.Par)
	}
	for _, p := range players {
		io.WriteString(h, "s"+strconv.Quote(p))
		for _, s := range scores.Row(p) {
			io.WriteString(h, " "+s.String())
		}
		io.WriteString(h, "\n")
	}

	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}
