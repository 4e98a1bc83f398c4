package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pmurley/nhl-stats/internal/models"
)

const playersKey = "players"

// Cache holds the loaded players and memoizes sorted/filtered views of them.
// Everything handed out is a copy, so callers can never change cached state.
type Cache struct {
	cache    *gocache.Cache
	duration time.Duration
}

func New(duration time.Duration) *Cache {
	return &Cache{
		cache:    gocache.New(duration, duration*2),
		duration: duration,
	}
}

// SetPlayers stores the loaded collection and drops any views derived from
// a previous one.
func (c *Cache) SetPlayers(players models.PlayerList) {
	c.Flush()
	c.cache.Set(playersKey, players.Clone(), gocache.NoExpiration)
}

func (c *Cache) GetPlayers() (models.PlayerList, bool) {
	if players, found := c.cache.Get(playersKey); found {
		return players.(models.PlayerList).Clone(), true
	}
	return nil, false
}

// View returns the cached view for key, computing and storing it on a miss.
func (c *Cache) View(key string, compute func() models.PlayerList) models.PlayerList {
	if view, found := c.cache.Get(viewKey(key)); found {
		return view.(models.PlayerList).Clone()
	}

	view := compute()
	c.cache.Set(viewKey(key), view.Clone(), c.duration)
	return view
}

func (c *Cache) ViewCount() int {
	n := c.cache.ItemCount()
	if _, found := c.cache.Get(playersKey); found {
		n--
	}
	return n
}

// Flush drops the loaded players and every view.
func (c *Cache) Flush() {
	c.cache.Flush()
}

func viewKey(key string) string {
	return "view:" + key
}
