package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/dearme/internal/storage"
)

type DebugCmd struct {
	DBPath *DebugDBPathCmd `cmd:"" help:"Show database path."`
	Dump   *DebugDumpCmd   `cmd:"" help:"Dump a stored document as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpCmd struct {
	Collection string `arg:"" help:"Collection (habits, journals, gratitude, reflections, abcde, goals, videos)."`
	ID         string `arg:"" help:"Document ID."`
	Global     bool   `help:"Look up a shared document (the video library)."`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	if err := storage.ValidateCollection(cmd.Collection); err != nil {
		return err
	}

	owner := ""
	if !cmd.Global {
		user, err := ctx.CurrentUser(context.Background())
		if err != nil {
			return err
		}
		owner = user.ID
	}

	doc, err := ctx.Store.GetDocument(context.Background(), cmd.Collection, owner, cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to get %s %s: %w", cmd.Collection, cmd.ID, err)
	}

	return printJSON(ctx, struct {
		ID         string          `json:"id"`
		Collection string          `json:"collection"`
		OwnerID    string          `json:"owner_id"`
		CreatedAt  string          `json:"created_at"`
		Body       json.RawMessage `json:"body"`
	}{doc.ID, doc.Collection, doc.OwnerID, doc.CreatedAt.Format(storage.TimestampFormat), doc.Body})
}

func printJSON(ctx *Context, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(out))
	return nil
}
