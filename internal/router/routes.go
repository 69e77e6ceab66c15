package router

import (
	"net/url"
	"strconv"
	"strings"
)

// Route names.
const (
	RouteCreate = "create"
	RouteLoad   = "load"
	RoutePlay   = "play"
)

// Route pairs a screen name with its location pattern. A ":name" segment
// captures one non-empty path segment.
type Route struct {
	Name    string
	Pattern string
}

// Routes is the routing table. The first matching route wins.
var Routes = []Route{
	{Name: RouteCreate, Pattern: "/"},
	{Name: RouteLoad, Pattern: "/stories/:id"},
	{Name: RoutePlay, Pattern: "/play/:id"},
}

// Params holds the values captured from a location.
type Params struct {
	values map[string]string
}

// Get returns the captured value for name, or "".
func (p Params) Get(name string) string {
	return p.values[name]
}

// Len returns the number of captured values.
func (p Params) Len() int {
	return len(p.values)
}

// Match finds the route for location. Literal segments match in any case;
// captured values keep theirs. Query strings, fragments and trailing
// slashes are ignored.
func Match(location string) (Route, Params, bool) {
	segs := segments(location)
	for _, r := range Routes {
		if params, ok := matchPattern(segments(r.Pattern), segs); ok {
			return r, params, true
		}
	}
	return Route{}, Params{}, false
}

func matchPattern(pattern, segs []string) (Params, bool) {
	if len(pattern) != len(segs) {
		return Params{}, false
	}
	var values map[string]string
	for i, p := range pattern {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if values == nil {
				values = make(map[string]string)
			}
			values[name] = segs[i]
			continue
		}
		if !strings.EqualFold(p, segs[i]) {
			return Params{}, false
		}
	}
	return Params{values: values}, true
}

func segments(location string) []string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}
	var out []string
	for _, s := range strings.Split(location, "/") {
		if s == "" {
			continue
		}
		if u, err := url.PathUnescape(s); err == nil {
			s = u
		}
		out = append(out, s)
	}
	return out
}

// Home is the location of the create screen.
const Home = "/"

// StoryLocation returns the location of the load screen for id.
func StoryLocation(id int64) string {
	return "/stories/" + strconv.FormatInt(id, 10)
}

// PlayLocation returns the location of the play screen for id.
func PlayLocation(id int64) string {
	return "/play/" + strconv.FormatInt(id, 10)
}
