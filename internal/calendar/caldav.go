package calendar

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-webdav/caldav"

	"github.com/julianstephens/dearme/internal/logger"
	"github.com/julianstephens/dearme/internal/models"
)

// CalDAVConfig locates the remote calendar collection.
type CalDAVConfig struct {
	URL      string
	Username string
	Password string
	// Collection is the calendar path on the server, e.g. /calendars/me/habits/.
	Collection string
}

// Pusher uploads habit occurrences to a CalDAV collection.
type Pusher struct {
	client     *caldav.Client
	collection string
}

type basicAuthTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(req)
}

func NewPusher(cfg CalDAVConfig) (*Pusher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("caldav url is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("caldav collection path is required")
	}

	httpClient := &http.Client{
		Transport: &basicAuthTransport{
			username: cfg.Username,
			password: cfg.Password,
			base:     http.DefaultTransport,
		},
		Timeout: 30 * time.Second,
	}
	client, err := caldav.NewClient(httpClient, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to CalDAV: %w", err)
	}

	collection := cfg.Collection
	if !strings.HasSuffix(collection, "/") {
		collection += "/"
	}
	return &Pusher{client: client, collection: collection}, nil
}

// Push stores each occurrence as its own calendar object. Objects are keyed by
// EventUID, so pushing a series twice replaces the earlier copies.
func (p *Pusher) Push(ctx context.Context, occs []models.HabitOccurrence, loc *time.Location) (int, error) {
	pushed := 0
	for _, occ := range occs {
		event, err := NewEvent(occ, loc)
		if err != nil {
			return pushed, fmt.Errorf("occurrence %s: %w", occ.Date, err)
		}
		cal := NewCalendar()
		cal.Children = append(cal.Children, event.Component)

		path := p.collection + EventUID(occ) + ".ics"
		if _, err := p.client.PutCalendarObject(ctx, path, cal); err != nil {
			return pushed, fmt.Errorf("push %s: %w", path, err)
		}
		pushed++
	}

	logger.Info("Pushed habit occurrences to CalDAV", "count", pushed, "collection", p.collection)
	return pushed, nil
}
