package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/julianstephens/dearme/internal/entries"
	"github.com/julianstephens/dearme/internal/models"
)

type JournalCmd struct {
	Add    JournalAddCmd                       `cmd:"" help:"Write a journal entry."`
	List   EntryListCmd[models.JournalEntry]   `cmd:"" help:"List journal entries."`
	Show   EntryShowCmd[models.JournalEntry]   `cmd:"" help:"Render one journal entry."`
	Delete EntryDeleteCmd[models.JournalEntry] `cmd:"" help:"Delete a journal entry."`
}

type GratitudeCmd struct {
	Add    GratitudeAddCmd                  `cmd:"" help:"Add something you are grateful for."`
	List   EntryListCmd[models.Gratitude]   `cmd:"" help:"List the gratitude list."`
	Show   EntryShowCmd[models.Gratitude]   `cmd:"" help:"Show one item."`
	Delete EntryDeleteCmd[models.Gratitude] `cmd:"" help:"Delete an item."`
}

type ReflectionCmd struct {
	Add    ReflectionAddCmd                  `cmd:"" help:"Write a daily reflection."`
	List   EntryListCmd[models.Reflection]   `cmd:"" help:"List reflections."`
	Show   EntryShowCmd[models.Reflection]   `cmd:"" help:"Show one reflection."`
	Delete EntryDeleteCmd[models.Reflection] `cmd:"" help:"Delete a reflection."`
}

type ABCDECmd struct {
	Add    ABCDEAddCmd                  `cmd:"" help:"Work through an ABCDE exercise."`
	List   EntryListCmd[models.ABCDE]   `cmd:"" help:"List exercises."`
	Show   EntryShowCmd[models.ABCDE]   `cmd:"" help:"Show one exercise."`
	Delete EntryDeleteCmd[models.ABCDE] `cmd:"" help:"Delete an exercise."`
}

type GoalCmd struct {
	Add    GoalAddCmd                  `cmd:"" help:"Set a goal for today."`
	List   EntryListCmd[models.Goal]   `cmd:"" help:"List goals."`
	Show   EntryShowCmd[models.Goal]   `cmd:"" help:"Show one goal."`
	Delete EntryDeleteCmd[models.Goal] `cmd:"" help:"Delete a goal."`
}

// kindOf returns the entry kind stored as T.
func kindOf[T any]() entries.Kind[T] {
	var zero T
	var kind any
	switch any(zero).(type) {
	case models.JournalEntry:
		kind = entries.Journals
	case models.Gratitude:
		kind = entries.Gratitude
	case models.Reflection:
		kind = entries.Reflections
	case models.ABCDE:
		kind = entries.ABCDE
	case models.Goal:
		kind = entries.Goals
	default:
		panic(fmt.Sprintf("no entry kind for %T", zero))
	}
	return kind.(entries.Kind[T])
}

func entryService[T any](ctx *Context) (*entries.Service[T], string, error) {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return nil, "", err
	}
	return entries.NewService(ctx.Store, kindOf[T]()), user.ID, nil
}

func addEntry[T any](ctx *Context, v T) error {
	svc, owner, err := entryService[T](ctx)
	if err != nil {
		return err
	}
	saved, err := svc.Add(context.Background(), owner, v)
	if err != nil {
		return err
	}
	id, _ := entryMeta(saved)
	ctx.printf("Saved %s (ID: %s)\n", oneLine(svc.Summary(saved), 60), id)
	return nil
}

type JournalAddCmd struct {
	Entry string `arg:"" help:"Journal text (Markdown)."`
}

func (c *JournalAddCmd) Run(ctx *Context) error {
	return addEntry(ctx, models.JournalEntry{Entry: c.Entry})
}

type GratitudeAddCmd struct {
	Text string `arg:"" help:"Something you are grateful for."`
}

func (c *GratitudeAddCmd) Run(ctx *Context) error {
	return addEntry(ctx, models.Gratitude{Gratitude: c.Text})
}

type ReflectionAddCmd struct {
	Text string `arg:"" help:"Reflection text."`
}

func (c *ReflectionAddCmd) Run(ctx *Context) error {
	return addEntry(ctx, models.Reflection{Reflection: c.Text})
}

type GoalAddCmd struct {
	Text string `arg:"" help:"Goal for today."`
}

func (c *GoalAddCmd) Run(ctx *Context) error {
	return addEntry(ctx, models.Goal{Goal: c.Text})
}

type ABCDEAddCmd struct {
	A string `short:"a" help:"Activating event." required:""`
	B string `short:"b" help:"Beliefs about the event." required:""`
	C string `short:"c" help:"Consequences." required:""`
	D string `short:"d" help:"Disputation." required:""`
	E string `short:"e" help:"New effect." required:""`
}

func (c *ABCDEAddCmd) Run(ctx *Context) error {
	return addEntry(ctx, models.ABCDE{A: c.A, B: c.B, C: c.C, D: c.D, E: c.E})
}

type EntryListCmd[T any] struct {
	Limit int `short:"n" help:"Show at most this many entries (0 for all)." default:"20"`
}

func (c *EntryListCmd[T]) Run(ctx *Context) error {
	svc, owner, err := entryService[T](ctx)
	if err != nil {
		return err
	}
	items, err := svc.List(context.Background(), owner)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		ctx.println("Nothing here yet")
		return nil
	}
	if c.Limit > 0 && len(items) > c.Limit {
		items = items[:c.Limit]
	}

	for _, item := range items {
		id, created := entryMeta(item)
		ctx.printf("  %s  %s\n      id: %s\n", created.Local().Format("2006-01-02 15:04"), oneLine(svc.Summary(item), 60), id)
	}
	return nil
}

type EntryShowCmd[T any] struct {
	ID  string `arg:"" help:"Entry ID."`
	Raw bool   `help:"Print the Markdown source instead of rendering it."`
}

func (c *EntryShowCmd[T]) Run(ctx *Context) error {
	svc, owner, err := entryService[T](ctx)
	if err != nil {
		return err
	}
	item, err := svc.Get(context.Background(), owner, c.ID)
	if err != nil {
		return err
	}

	md := markdownOf(item)
	if c.Raw {
		ctx.println(md)
		return nil
	}
	out, err := renderMarkdown(md)
	if err != nil {
		return err
	}
	ctx.printf("%s", out)
	return nil
}

type EntryDeleteCmd[T any] struct {
	ID string `arg:"" help:"Entry ID."`
}

func (c *EntryDeleteCmd[T]) Run(ctx *Context) error {
	svc, owner, err := entryService[T](ctx)
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()
	if err := svc.Delete(context.Background(), owner, c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted %s\n", c.ID)
	return nil
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render(md)
}

// markdownOf lays an entry out as a Markdown document.
func markdownOf(v any) string {
	switch e := v.(type) {
	case models.JournalEntry:
		return fmt.Sprintf("# Journal, %s\n\n%s\n", e.CreatedAt.Format("Mon Jan 2 2006"), e.Entry)
	case models.Gratitude:
		return fmt.Sprintf("# Grateful for\n\n%s\n", e.Gratitude)
	case models.Reflection:
		return fmt.Sprintf("# Reflection, %s\n\n%s\n", e.CreatedAt.Format("Mon Jan 2 2006"), e.Reflection)
	case models.Goal:
		return fmt.Sprintf("# Goal\n\n- %s\n", e.Goal)
	case models.ABCDE:
		return fmt.Sprintf("# ABCDE\n\n"+
			"## Activating event\n\n%s\n\n"+
			"## Beliefs\n\n%s\n\n"+
			"## Consequences\n\n%s\n\n"+
			"## Disputation\n\n%s\n\n"+
			"## New effect\n\n%s\n", e.A, e.B, e.C, e.D, e.E)
	}
	return fmt.Sprint(v)
}

// entryMeta returns the id and creation time every entry kind carries.
func entryMeta(v any) (string, time.Time) {
	switch e := v.(type) {
	case models.JournalEntry:
		return e.ID, e.CreatedAt
	case models.Gratitude:
		return e.ID, e.CreatedAt
	case models.Reflection:
		return e.ID, e.CreatedAt
	case models.ABCDE:
		return e.ID, e.CreatedAt
	case models.Goal:
		return e.ID, e.CreatedAt
	}
	return "", time.Time{}
}

// oneLine flattens s and cuts it to n runes.
func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
