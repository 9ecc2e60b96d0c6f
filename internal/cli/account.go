package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dearme/internal/auth"
)

type RegisterCmd struct {
	Name     string `short:"n" help:"Display name." required:""`
	Email    string `short:"e" help:"Email address." required:""`
	Password string `short:"p" help:"Password (prompted when omitted)." env:"DEARME_PASSWORD"`
}

func (c *RegisterCmd) Run(ctx *Context) error {
	password, err := promptPassword(c.Password)
	if err != nil {
		return err
	}

	user, err := ctx.Auth().Register(context.Background(), auth.RegisterInput{
		Name:     c.Name,
		Email:    c.Email,
		Password: password,
	})
	if err != nil {
		return err
	}

	ctx.printf("Registered %s <%s>\n", user.Name, user.Email)
	ctx.printf("Run 'dearme login -e %s' to start a session.\n", user.Email)
	return nil
}

type LoginCmd struct {
	Email    string `short:"e" help:"Email address." required:""`
	Password string `short:"p" help:"Password (prompted when omitted)." env:"DEARME_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *Context) error {
	password, err := promptPassword(c.Password)
	if err != nil {
		return err
	}

	user, err := ctx.Auth().Login(context.Background(), auth.LoginInput{Email: c.Email, Password: password})
	if err != nil {
		return err
	}

	ctx.printf("Welcome back, %s!\n", user.Name)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	if err := ctx.Auth().Logout(); err != nil {
		return err
	}
	ctx.println("Logged out.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}
	ctx.printf("%s <%s>\n", user.Name, user.Email)
	ctx.printf("ID: %s\n", user.ID)
	return nil
}

func promptPassword(given string) (string, error) {
	if given != "" {
		return given, nil
	}

	var password string
	err := huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Run()
	if err != nil {
		return "", fmt.Errorf("password prompt: %w", err)
	}
	return password, nil
}
