package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"bloomadmin/internal/console"
	"bloomadmin/internal/debounce"
	"bloomadmin/internal/listview"
	"bloomadmin/internal/log"
	"bloomadmin/internal/validate"
)

// applyView copies the filter, sort, search, page and size query parameters that are
// present onto the screen. The page is applied last so an explicit page survives the
// reset caused by a filter or sort change in the same request.
func applyView[T any](c *fiber.Ctx, s *console.Screen[T]) {
	if v := c.Query("filter"); v != "" {
		s.SetFilter(v)
	}
	if v := c.Query("sort"); v != "" {
		s.SetSort(v)
	}
	if raw, ok := queryPresent(c, "q"); ok {
		q, valid := validate.Q(raw)
		if !valid {
			log.Security(c, "validation.fail", map[string]any{"field": "q"})
		} else {
			s.SetSearch(q)
		}
	}
	if v := c.Query("size"); v != "" {
		s.SetPageSize(validate.PageSize(v, s.State().PageSize))
	}
	if v := c.Query("page"); v != "" {
		s.SetPage(validate.Page(v))
	}
}

func queryPresent(c *fiber.Ctx, key string) (string, bool) {
	args := c.Request().URI().QueryArgs()
	if !args.Has(key) {
		return "", false
	}
	return string(args.Peek(key)), true
}

// listData is what every list template receives.
func listData[T any](s *console.Screen[T], p listview.Page[T]) fiber.Map {
	st := s.State()
	return fiber.Map{
		"Page":       p,
		"State":      st,
		"Categories": s.Categories(),
		"Loading":    s.Store.Loading(),
		"LoadErr":    s.Store.Err() != nil,
	}
}

// openScreen loads the screen's store on first use. A failed load is logged and the
// page renders empty with a notice.
func openScreen[T any](c *fiber.Ctx, s *console.Screen[T]) {
	if err := s.Open(c.UserContext()); err != nil {
		log.Error(c, "admin."+s.Name+".load.fail", err, nil)
	}
}

func confirmed(c *fiber.Ctx) bool {
	return strings.EqualFold(c.FormValue("confirm"), "yes")
}

// liveSearch applies the typed term once typing pauses and answers with the re-rendered
// rows. A request overtaken by a newer keystroke gets 204 and the page keeps the rows
// the newer request will send.
func liveSearch[T any](c *fiber.Ctx, s *console.Screen[T], rowsTmpl string) error {
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q"})
		return c.SendStatus(fiber.StatusBadRequest)
	}
	openScreen(c, s)
	err := s.Search(c.UserContext(), q)
	switch {
	case errors.Is(err, debounce.ErrSuperseded):
		return c.SendStatus(fiber.StatusNoContent)
	case errors.Is(err, debounce.ErrStopped):
		return c.SendStatus(fiber.StatusConflict)
	case err != nil:
		return err
	}
	return render(c, rowsTmpl, listData(s, s.View()))
}
