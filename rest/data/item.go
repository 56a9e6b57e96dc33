package data

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/awesome-store/store"
	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/item"
	"github.com/awesome-store/store/util"
	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

func (c *DBConnector) FindItems(ctx context.Context, opts item.SearchOptions) ([]item.Item, error) {
	return item.Search(ctx, c.items(), opts)
}

func (c *DBConnector) FindItemsByCategory(ctx context.Context, name string, skip, limit int) ([]item.Item, error) {
	return item.FindByCategory(ctx, c.items(), name, skip, limit)
}

func (c *DBConnector) FindItemByID(ctx context.Context, id db.ID) (*item.Item, error) {
	return item.FindOneID(ctx, c.items(), id)
}

func (c *DBConnector) CreateItem(ctx context.Context, i *item.Item) (*db.InsertResult, error) {
	return item.InsertWithCategory(ctx, c.items(), c.categories(), i)
}

func (c *DBConnector) UpsertItem(ctx context.Context, id db.ID, i *item.Item) (*db.UpdateResult, error) {
	return item.Upsert(ctx, c.items(), id, i)
}

func (c *DBConnector) DeleteItem(ctx context.Context, id db.ID) (*db.DeleteResult, error) {
	return item.Remove(ctx, c.items(), id)
}

func (c *DBConnector) GetItemImage(ctx context.Context, id db.ID) ([]byte, error) {
	i, err := c.FindItemByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "finding item '%s'", id.String())
	}
	if i == nil {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("item '%s' not found", id.String()),
		}
	}
	if i.ImageURL == "" {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("item '%s' has no image", id.String()),
		}
	}

	return fetchImage(ctx, i.ImageURL, c.Image)
}

// fetchImage downloads the image at url. Failures of the remote host are
// reported as bad gateway errors.
func fetchImage(ctx context.Context, url string, conf store.ImageConfig) ([]byte, error) {
	var client *http.Client
	if conf.MaxRetries > 0 {
		retryConf := util.NewDefaultHTTPRetryConf()
		retryConf.MaxRetries = conf.MaxRetries
		client = util.GetHTTPRetryableClient(retryConf)
	} else {
		client = util.GetHTTPClient()
	}
	defer util.PutHTTPClient(client)

	if conf.TimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(conf.TimeoutSecs)*time.Second)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    errors.Wrapf(err, "building request for image '%s'", url).Error(),
		}
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusBadGateway,
			Message:    errors.Wrapf(err, "fetching image '%s'", url).Error(),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusBadGateway,
			Message:    fmt.Sprintf("fetching image '%s': remote returned '%s'", url, resp.Status),
		}
	}

	out, err := util.ReadAllLimited(resp.Body, int64(conf.MaxSizeBytes))
	if err != nil {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusBadGateway,
			Message:    errors.Wrapf(err, "reading image '%s'", url).Error(),
		}
	}

	grip.Debug(message.Fields{
		"message":     "fetched item image",
		"url":         url,
		"size":        len(out),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return out, nil
}
