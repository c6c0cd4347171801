package calendar

import (
	"sort"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// Registry holds calendars by exchange name. Names are case-insensitive.
type Registry struct {
	mu        sync.RWMutex
	calendars map[string]*Calendar
}

func NewRegistry() *Registry {
	return &Registry{calendars: map[string]*Calendar{}}
}

// Register adds c. Registering a name twice is an error.
func (r *Registry) Register(c *Calendar) error {
	key := strings.ToUpper(c.Name())
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.calendars[key]; ok {
		return errors.Errorf("calendar %s is already registered", c.Name())
	}
	r.calendars[key] = c
	return nil
}

func (r *Registry) Get(name string) (*Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.calendars[strings.ToUpper(name)]
	if !ok {
		return nil, errors.Wrap(ErrUnknownExchange, name)
	}
	return c, nil
}

// Names returns the registered exchange names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.calendars))
	for _, c := range r.calendars {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	return names
}

// Match returns the calendars whose name matches a glob pattern such as
// "X*" or "{BVMF,XASX}", ordered by name.
func (r *Registry) Match(pattern string) ([]*Calendar, error) {
	g, err := glob.Compile(strings.ToUpper(pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid exchange pattern %q", pattern)
	}
	var out []*Calendar
	for _, name := range r.Names() {
		if g.Match(strings.ToUpper(name)) {
			c, err := r.Get(name)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
	}
	return out, nil
}
