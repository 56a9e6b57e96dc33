// Package loader seeds a store database from JSON fixture files: one file per
// category, plus optional users and collection validators.
package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/awesome-store/store"
	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/category"
	"github.com/awesome-store/store/model/item"
	"github.com/awesome-store/store/model/location"
	"github.com/awesome-store/store/model/user"
	"github.com/dustin/go-humanize"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

// Options control a load.
type Options struct {
	// DataDir holds the category fixture files.
	DataDir string
	// ValidatorsFile maps collection names to validators. Validators only
	// apply to collections created by the load.
	ValidatorsFile string
	UsersFile      string
	// ItemCollection defaults to store.ItemCollection.
	ItemCollection string
	// Reset drops the item, category and user collections first.
	Reset bool
}

func (o *Options) Validate() error {
	if o.ItemCollection == "" {
		o.ItemCollection = store.ItemCollection
	}

	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(o.DataDir == "", "data directory must be set")
	catcher.ErrorfWhen(o.ItemCollection == store.CategoryCollection || o.ItemCollection == store.UserCollection,
		"items cannot be loaded into the '%s' collection", o.ItemCollection)
	return catcher.Resolve()
}

func (o *Options) collections() []string {
	return []string{o.ItemCollection, store.CategoryCollection, store.UserCollection}
}

// Summary reports what a load did.
type Summary struct {
	Files             int
	Bytes             int64
	CategoriesCreated int
	ItemsInserted     int
	ItemsSkipped      int
	UsersInserted     int
	UsersSkipped      int
	Duration          time.Duration
}

func (s *Summary) String() string {
	return fmt.Sprintf("loaded %s items (%s skipped) and %s new categories from %d files (%s); %s users (%s skipped) in %s",
		humanize.Comma(int64(s.ItemsInserted)),
		humanize.Comma(int64(s.ItemsSkipped)),
		humanize.Comma(int64(s.CategoriesCreated)),
		s.Files,
		humanize.Bytes(uint64(s.Bytes)),
		humanize.Comma(int64(s.UsersInserted)),
		humanize.Comma(int64(s.UsersSkipped)),
		s.Duration.Round(time.Millisecond),
	)
}

// Load seeds database from the fixtures named by opts. Items whose name is
// already stored are skipped, so loading twice without Reset is safe.
func Load(ctx context.Context, database *db.Database, opts Options) (*Summary, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid loader options")
	}

	start := time.Now()
	summary := &Summary{}

	files, err := findFixtureFiles(opts.DataDir, opts.UsersFile, opts.ValidatorsFile)
	if err != nil {
		return nil, err
	}
	// Parse everything before touching the database so a bad file does not
	// leave a half-reset store behind.
	categoryFiles := make([]*categoryFile, 0, len(files))
	for _, path := range files {
		cf, err := readCategoryFile(path)
		if err != nil {
			return nil, err
		}
		categoryFiles = append(categoryFiles, cf)
		summary.Files++
		summary.Bytes += cf.size
	}

	var users []fixtureUser
	if opts.UsersFile != "" {
		if users, err = readUsersFile(opts.UsersFile); err != nil {
			return nil, err
		}
	}

	if err = prepareCollections(ctx, database, opts); err != nil {
		return nil, err
	}

	if err = loadUsers(ctx, database.Collection(store.UserCollection), users, summary); err != nil {
		return nil, err
	}

	items := database.Collection(opts.ItemCollection)
	categories := database.Collection(store.CategoryCollection)
	for _, cf := range categoryFiles {
		if err = loadCategoryFile(ctx, items, categories, cf, summary); err != nil {
			return nil, err
		}
	}

	summary.Duration = time.Since(start)
	grip.Info(message.Fields{
		"message":    "loaded fixtures",
		"database":   database.Name(),
		"collection": opts.ItemCollection,
		"summary":    summary.String(),
	})

	return summary, nil
}

// prepareCollections creates the collections with their validators,
// dropping them first on reset, and ensures the indexes the models need.
func prepareCollections(ctx context.Context, database *db.Database, opts Options) error {
	validators := map[string]bson.M{}
	if opts.ValidatorsFile != "" {
		var err error
		if validators, err = readValidatorsFile(opts.ValidatorsFile); err != nil {
			return err
		}
	}

	if opts.Reset {
		if err := database.DropCollections(ctx, opts.collections()...); err != nil {
			return errors.Wrap(err, "resetting collections")
		}
		grip.Notice(message.Fields{
			"message":     "dropped collections",
			"database":    database.Name(),
			"collections": opts.collections(),
		})
	}

	for _, name := range append(opts.collections(), store.LocationCollection) {
		var validator interface{}
		if v, ok := validators[name]; ok {
			validator = v
		}
		if err := database.CreateCollection(ctx, name, validator); err != nil {
			return err
		}
	}

	catcher := grip.NewBasicCatcher()
	catcher.Wrap(item.EnsureIndexes(ctx, database.Collection(opts.ItemCollection)), "ensuring item indexes")
	catcher.Wrap(category.EnsureIndexes(ctx, database.Collection(store.CategoryCollection)), "ensuring category indexes")
	catcher.Wrap(user.EnsureIndexes(ctx, database.Collection(store.UserCollection)), "ensuring user indexes")
	catcher.Wrap(location.EnsureIndexes(ctx, database.Collection(store.LocationCollection)), "ensuring location indexes")
	return catcher.Resolve()
}

func loadUsers(ctx context.Context, coll *db.Collection, users []fixtureUser, summary *Summary) error {
	for _, fu := range users {
		u := fu.toService()
		register := user.Register
		if user.IsHash(u.Password) {
			register = user.RegisterHashed
		}
		_, err := register(ctx, coll, u)
		if user.IsDuplicateUser(err) {
			summary.UsersSkipped++
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "loading user '%s'", fu.Username)
		}
		summary.UsersInserted++
	}
	return nil
}

func loadCategoryFile(ctx context.Context, items, categories *db.Collection, cf *categoryFile, summary *Summary) error {
	c := &category.Category{Name: cf.label}
	res, err := category.Insert(ctx, categories, c)
	if err != nil {
		return errors.Wrapf(err, "loading category '%s'", cf.label)
	}
	if res.Acknowledged {
		summary.CategoriesCreated++
	} else {
		existing, err := category.FindByName(ctx, categories, cf.label)
		if err != nil {
			return errors.Wrapf(err, "finding category '%s'", cf.label)
		}
		if existing == nil {
			return errors.Errorf("category '%s' was neither inserted nor found", cf.label)
		}
		c = existing
	}

	inserted, skipped := 0, 0
	for idx := range cf.items {
		i := cf.items[idx].toService(c)
		if err := i.Validate(); err != nil {
			grip.Warning(message.WrapError(err, message.Fields{
				"message": "skipping invalid fixture item",
				"file":    cf.path,
			}))
			skipped++
			continue
		}
		res, err := item.Insert(ctx, items, i)
		if err != nil {
			return errors.Wrapf(err, "loading item '%s' from '%s'", i.Name, cf.path)
		}
		if res.Acknowledged {
			inserted++
		} else {
			skipped++
		}
	}
	summary.ItemsInserted += inserted
	summary.ItemsSkipped += skipped

	grip.Debug(message.Fields{
		"message":  "loaded fixture file",
		"file":     cf.path,
		"category": c.Name,
		"inserted": inserted,
		"skipped":  skipped,
	})
	return nil
}
