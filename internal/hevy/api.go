package hevy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/claude/hevyplan/internal/models"
)

const (
	templatePageSize = 100
	listPageSize     = 10
)

// page collects every page of a paginated listing. decode returns the items
// of one page body and the total page count.
func (c *Client) page(ctx context.Context, path string, size int, decode func(json.RawMessage) (int, error)) error {
	for p := 1; ; p++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(p))
		params.Set("pageSize", strconv.Itoa(size))

		var raw json.RawMessage
		if err := c.do(ctx, http.MethodGet, path, params, nil, &raw); err != nil {
			return err
		}
		pageCount, err := decode(raw)
		if err != nil {
			return fmt.Errorf("hevy: decode %s page %d: %w", path, p, err)
		}
		if p >= pageCount {
			return nil
		}
	}
}

// ExerciseTemplates fetches the whole exercise catalog.
func (c *Client) ExerciseTemplates(ctx context.Context) ([]models.ExerciseTemplate, error) {
	var all []models.ExerciseTemplate
	err := c.page(ctx, "/exercise_templates", templatePageSize, func(raw json.RawMessage) (int, error) {
		var resp struct {
			PageCount         int                       `json:"page_count"`
			ExerciseTemplates []models.ExerciseTemplate `json:"exercise_templates"`
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return 0, err
		}
		all = append(all, resp.ExerciseTemplates...)
		c.log.Debug("fetched exercise templates", "count", len(all), "pages", resp.PageCount)
		return resp.PageCount, nil
	})
	return all, err
}

// Folders lists every routine folder.
func (c *Client) Folders(ctx context.Context) ([]models.Folder, error) {
	var all []models.Folder
	err := c.page(ctx, "/routine_folders", listPageSize, func(raw json.RawMessage) (int, error) {
		var resp struct {
			PageCount      int             `json:"page_count"`
			RoutineFolders []models.Folder `json:"routine_folders"`
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return 0, err
		}
		all = append(all, resp.RoutineFolders...)
		return resp.PageCount, nil
	})
	return all, err
}

// Routines lists every routine.
func (c *Client) Routines(ctx context.Context) ([]models.Routine, error) {
	var all []models.Routine
	err := c.page(ctx, "/routines", listPageSize, func(raw json.RawMessage) (int, error) {
		var resp struct {
			PageCount int              `json:"page_count"`
			Routines  []models.Routine `json:"routines"`
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return 0, err
		}
		all = append(all, resp.Routines...)
		return resp.PageCount, nil
	})
	return all, err
}

// CreateFolder creates a routine folder.
func (c *Client) CreateFolder(ctx context.Context, title string) (*models.Folder, error) {
	body := map[string]any{"routine_folder": map[string]string{"title": title}}
	var resp struct {
		RoutineFolder models.Folder `json:"routine_folder"`
	}
	if err := c.do(ctx, http.MethodPost, "/routine_folders", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.RoutineFolder, nil
}

// CreateRoutine submits a new routine.
func (c *Client) CreateRoutine(ctx context.Context, req models.RoutineRequest) (*models.Routine, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/routines", nil, map[string]any{"routine": req}, &raw); err != nil {
		return nil, err
	}
	return decodeRoutine(raw, req.Title), nil
}

// UpdateRoutine replaces an existing routine. The folder cannot be changed on
// update, so FolderID is cleared from the request.
func (c *Client) UpdateRoutine(ctx context.Context, id string, req models.RoutineRequest) (*models.Routine, error) {
	req.FolderID = nil
	var raw json.RawMessage
	path := "/routines/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, nil, map[string]any{"routine": req}, &raw); err != nil {
		return nil, err
	}
	r := decodeRoutine(raw, req.Title)
	if r.ID == "" {
		r.ID = id
	}
	return r, nil
}

// DeleteRoutine removes a routine.
func (c *Client) DeleteRoutine(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/routines/"+url.PathEscape(id), nil, nil, nil)
}

// DeleteFolder removes a routine folder.
func (c *Client) DeleteFolder(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/routine_folders/"+strconv.Itoa(id), nil, nil, nil)
}

// decodeRoutine reads {"routine": {...}} or {"routine": [{...}]}. The routine
// exists once the service accepted it, so an unreadable body yields a stub
// carrying only the title.
func decodeRoutine(raw json.RawMessage, title string) *models.Routine {
	var resp struct {
		Routine json.RawMessage `json:"routine"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil || len(resp.Routine) == 0 {
		return &models.Routine{Title: title}
	}

	body := bytes.TrimSpace(resp.Routine)
	if len(body) > 0 && body[0] == '[' {
		var list []models.Routine
		if err := json.Unmarshal(body, &list); err != nil || len(list) == 0 {
			return &models.Routine{Title: title}
		}
		return &list[0]
	}
	var r models.Routine
	if err := json.Unmarshal(body, &r); err != nil {
		return &models.Routine{Title: title}
	}
	return &r
}
