package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/quillhq/quill/common/session"
)

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
		&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
	}
}

func registerCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create a new account",
		Flags: credentialFlags(),
		Action: func(c *cli.Context) error {
			if err := a.sess.Register(c.Context, c.String("username"), c.String("password")); err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			fmt.Println("Account created. You can now log in.")
			return nil
		},
	}
}

func loginCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "start a session",
		Flags: credentialFlags(),
		Action: func(c *cli.Context) error {
			if err := a.sess.Login(c.Context, c.String("username"), c.String("password")); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			a.persistSession()
			fmt.Println("Logged in.")
			return nil
		},
	}
}

func logoutCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "end the session",
		Action: func(c *cli.Context) error {
			if err := a.sess.Logout(c.Context); err != nil {
				return err
			}
			if err := session.Forget(a.cfg.CookieFile()); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}
