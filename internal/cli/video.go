package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/dearme/internal/videos"
)

type VideoCmd struct {
	Import VideoImportCmd `cmd:"" help:"Import videos from a YAML catalog."`
	List   VideoListCmd   `cmd:"" help:"List the video library."`
}

type VideoImportCmd struct {
	File string `arg:"" help:"YAML catalog file." type:"existingfile"`
}

func (c *VideoImportCmd) Run(ctx *Context) error {
	result, err := videos.NewService(ctx.Store).ImportFile(context.Background(), c.File)
	if err != nil {
		return err
	}
	ctx.printf("Imported %d video(s), skipped %d already in the library\n", result.Added, result.Skipped)
	return nil
}

type VideoListCmd struct{}

func (c *VideoListCmd) Run(ctx *Context) error {
	list, err := videos.NewService(ctx.Store).List(context.Background())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		ctx.println("The video library is empty. Import a catalog with 'dearme video import'.")
		return nil
	}

	for _, v := range list {
		line := "  " + v.Title
		if v.DurationMin > 0 {
			line += fmt.Sprintf(" (%d min)", v.DurationMin)
		}
		ctx.printf("%s\n      %s\n", line, v.URL)
	}
	return nil
}
