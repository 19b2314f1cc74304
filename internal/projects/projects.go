// Package projects is the Home step: the saved project list, the current
// project and moving page state in and out of it.
package projects

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"Loadline/internal/backend"
	"Loadline/internal/formstate"
	"Loadline/internal/page"
)

type Controller struct {
	Client         *backend.Client
	Logger         *slog.Logger
	RestoreTimeout time.Duration
}

func NewController(c *backend.Client, logger *slog.Logger, restoreTimeout time.Duration) *Controller {
	return &Controller{Client: c, Logger: logger, RestoreTimeout: restoreTimeout}
}

// List returns the user's projects, most recently modified first.
func (c *Controller) List(ctx context.Context) ([]backend.SaveFile, error) {
	files, err := c.Client.AllSaveData(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].DateModified > files[j].DateModified
	})
	return files, nil
}

// Create makes an empty project and selects it as current.
func (c *Controller) Create(ctx context.Context) (backend.SaveFile, error) {
	f, err := c.Client.NewSaveData(ctx)
	if err != nil {
		return backend.SaveFile{}, err
	}
	if err := c.Client.SetCurrentSaveFile(ctx, f.ID); err != nil {
		return backend.SaveFile{}, err
	}
	c.Logger.Info("project created", "id", f.ID)
	return f, nil
}

func (c *Controller) Open(ctx context.Context, id int) error {
	if err := c.Client.SetCurrentSaveFile(ctx, id); err != nil {
		return err
	}
	c.Logger.Info("project opened", "id", id)
	return nil
}

func (c *Controller) Current(ctx context.Context) (backend.SaveFile, error) {
	return c.Client.CurrentSaveFile(ctx)
}

// document fetches the stored form state of the current project.
func (c *Controller) document(ctx context.Context) (int, []byte, error) {
	cur, err := c.Client.CurrentSaveFile(ctx)
	if err != nil {
		return 0, nil, err
	}
	f, err := c.Client.GetSaveData(ctx, cur.ID)
	if err != nil {
		return 0, nil, err
	}
	return cur.ID, []byte(f.JSONData), nil
}

// Restore applies section of the current project onto p. It waits at most
// RestoreTimeout for the page's elements to be attached.
func (c *Controller) Restore(ctx context.Context, section string, p *page.Page) error {
	_, data, err := c.document(ctx)
	if err != nil {
		return err
	}
	if c.RestoreTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.RestoreTimeout)
		defer cancel()
	}
	if err := formstate.Deserialize(ctx, data, section, p); err != nil {
		c.Logger.Error("restore failed", "section", section, "err", err)
		return err
	}
	return nil
}

// Save stores section of p into the current project, keeping the other
// sections already saved there.
func (c *Controller) Save(ctx context.Context, section string, p *page.Page) error {
	id, data, err := c.document(ctx)
	if err != nil {
		return err
	}
	doc, err := formstate.Parse(data)
	if err != nil {
		return err
	}
	merged, err := doc.Merge(formstate.Serialize(section, p)).Marshal()
	if err != nil {
		return fmt.Errorf("encode form state: %w", err)
	}
	if err := c.Client.SetSaveData(ctx, id, string(merged)); err != nil {
		return err
	}
	c.Logger.Debug("project saved", "id", id, "section", section)
	return nil
}
