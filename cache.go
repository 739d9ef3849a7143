package assoweb

import (
	"sync"
	"time"
)

// SiteCache is an in-memory cache of the data every public page needs: menu
// entries, blocks, featured tiles and the visible-page index. Admin writes
// call Invalidate, so the TTL only matters for edits made outside the app.
type SiteCache struct {
	mu      sync.RWMutex
	home    HomeData
	pages   []Page
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewSiteCache creates a SiteCache backed by the given Store.
func NewSiteCache(s *Store, ttl time.Duration) *SiteCache {
	return &SiteCache{store: s, ttl: ttl}
}

func (c *SiteCache) valid() bool {
	return c.pages != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *SiteCache) Invalidate() {
	c.mu.Lock()
	c.pages = nil
	c.home = HomeData{}
	c.mu.Unlock()
}

func (c *SiteCache) load() error {
	if c.valid() {
		return nil
	}
	main, err := c.store.ListMenuEntries(MenuMain)
	if err != nil {
		return err
	}
	secondary, err := c.store.ListMenuEntries(MenuSecondary)
	if err != nil {
		return err
	}
	blocks, err := c.store.ListBlocks()
	if err != nil {
		return err
	}
	featured, err := c.store.ListFeatured()
	if err != nil {
		return err
	}
	briefs, err := c.store.ListBriefs(true)
	if err != nil {
		return err
	}
	pages, err := c.store.ListVisiblePages()
	if err != nil {
		return err
	}
	if pages == nil {
		pages = []Page{}
	}
	c.home = HomeData{
		MainMenu:      main,
		SecondaryMenu: secondary,
		Blocks:        blocks,
		Featured:      featured,
		Briefs:        briefs,
	}
	c.pages = pages
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached data after ensuring the cache is fresh. It
// tries a read lock first; only takes a write lock if a reload is needed.
func (c *SiteCache) ensureLoaded() (HomeData, []Page, error) {
	c.mu.RLock()
	if c.valid() {
		home, pages := c.home, c.pages
		c.mu.RUnlock()
		return home, pages, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return HomeData{}, nil, err
	}
	return c.home, c.pages, nil
}

// Home returns the shared layout data for public pages.
func (c *SiteCache) Home() (HomeData, error) {
	home, _, err := c.ensureLoaded()
	return home, err
}

// VisiblePage returns a visible page by id from the cache.
func (c *SiteCache) VisiblePage(id int64) (Page, error) {
	_, pages, err := c.ensureLoaded()
	if err != nil {
		return Page{}, err
	}
	for _, p := range pages {
		if p.ID == id {
			return p, nil
		}
	}
	return Page{}, ErrNotFound
}

// VisiblePages returns every visible page, in menu order.
func (c *SiteCache) VisiblePages() ([]Page, error) {
	_, pages, err := c.ensureLoaded()
	return pages, err
}
