package cli

import "fmt"

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized dearme storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}

// migrator is implemented by every store backed by a migration runner.
type migrator interface {
	Migrate(logFn func(string)) (int, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("store %s does not support migrations", ctx.Store.GetConfigPath())
	}

	count, err := m.Migrate(func(msg string) {
		ctx.println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.println("No migrations to apply. Database is up to date.")
	} else {
		ctx.printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
