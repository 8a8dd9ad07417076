package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"evcharging/frontend/internal/api"
	"evcharging/frontend/internal/session"
)

func (c *Cli) runRegister(ctx context.Context, _ []string) error {
	c.io.Println("=== Register ===")

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if username == "" || email == "" || password == "" {
		return errors.New("all fields are required")
	}

	res, err := c.client.Register(ctx, username, email, password)
	if err != nil {
		return err
	}
	if err := c.saveSession(res); err != nil {
		return err
	}
	c.io.Printf("Registered and logged in as %s\n", res.Username)
	return nil
}

func (c *Cli) runLogin(ctx context.Context, _ []string) error {
	c.io.Println("=== Login ===")

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}

	res, err := c.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := c.saveSession(res); err != nil {
		return err
	}
	c.io.Printf("Logged in as %s\n", res.Username)
	return nil
}

func (c *Cli) runLogout() error {
	if err := c.store.Clear(); err != nil {
		return err
	}
	c.client.SetToken("")
	c.io.Println("Logged out")
	return nil
}

func (c *Cli) saveSession(res *api.AuthResponse) error {
	err := c.store.Save(session.Session{
		UserID:   res.ID,
		Username: res.Username,
		Email:    res.Email,
		Token:    res.Token,
		SavedAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	c.client.SetToken(res.Token)
	return nil
}
