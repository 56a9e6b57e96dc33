package loader

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/awesome-store/store/model/category"
	"github.com/awesome-store/store/model/item"
	"github.com/awesome-store/store/model/user"
	"github.com/awesome-store/store/util"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

// fixtureItem is one entry of a category fixture file. Fixture files come
// from scraped pages, so prices may be strings such as "$1,299.00".
type fixtureItem struct {
	Name        string   `mapstructure:"name"`
	ProductURL  string   `mapstructure:"prod_url"`
	ImageURL    string   `mapstructure:"img_url"`
	Price       float64  `mapstructure:"price"`
	Description string   `mapstructure:"desc"`
	Tags        []string `mapstructure:"tags"`
}

func (f *fixtureItem) toService(c *category.Category) *item.Item {
	return &item.Item{
		Name:        strings.TrimSpace(f.Name),
		ProductURL:  f.ProductURL,
		ImageURL:    f.ImageURL,
		Price:       f.Price,
		Description: f.Description,
		Category:    c.Name,
		CategoryID:  c.ID,
		Tags:        f.Tags,
	}
}

type fixtureUser struct {
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
	Username  string `mapstructure:"username"`
	Email     string `mapstructure:"email"`
	Password  string `mapstructure:"password"`
}

func (f *fixtureUser) toService() *user.User {
	return &user.User{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Username:  f.Username,
		Email:     f.Email,
		Password:  f.Password,
	}
}

// categoryFile is a parsed fixture file: a category label and its items in
// key order.
type categoryFile struct {
	path  string
	label string
	size  int64
	items []fixtureItem
}

// priceHook strips currency symbols and thousands separators from string
// values headed for float fields.
func priceHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Float64 {
		return data, nil
	}
	return strings.NewReplacer("$", "", ",", "", " ", "").Replace(data.(string)), nil
}

func decode(input interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       priceHook,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, "creating decoder")
	}
	return decoder.Decode(input)
}

// findFixtureFiles returns the JSON files directly inside dir, sorted by
// name. The users and validators files are excluded when they live there.
func findFixtureFiles(dir string, exclude ...string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, errors.Wrapf(err, "listing fixture files in '%s'", dir)
	}

	skip := map[string]bool{}
	for _, path := range exclude {
		if path == "" {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			skip[abs] = true
		}
	}

	out := make([]string, 0, len(files))
	for _, path := range files {
		if abs, err := filepath.Abs(path); err == nil && skip[abs] {
			continue
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		out = append(out, path)
	}
	sort.Strings(out)
	return out, nil
}

// readCategoryFile parses a fixture file, a JSON object mapping arbitrary
// keys to items. The keys are not used as identifiers.
func readCategoryFile(path string) (*categoryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading fixture file '%s'", path)
	}

	raw := map[string]map[string]interface{}{}
	if err = json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parsing fixture file '%s'", path)
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := &categoryFile{
		path:  path,
		label: category.LabelFromFileName(filepath.Base(path)),
		size:  int64(len(data)),
		items: make([]fixtureItem, 0, len(raw)),
	}
	for _, key := range keys {
		fi := fixtureItem{}
		if err = decode(raw[key], &fi); err != nil {
			return nil, errors.Wrapf(err, "decoding item '%s' in '%s'", key, path)
		}
		out.items = append(out.items, fi)
	}
	return out, nil
}

func readUsersFile(path string) ([]fixtureUser, error) {
	raw := []map[string]interface{}{}
	if err := util.ReadFromJSONFile(path, &raw); err != nil {
		return nil, errors.Wrap(err, "reading users file")
	}

	users := []fixtureUser{}
	if err := decode(raw, &users); err != nil {
		return nil, errors.Wrapf(err, "decoding users in '%s'", path)
	}
	return users, nil
}

// readValidatorsFile parses a JSON object mapping collection names to
// collection validators. Extended JSON is accepted.
func readValidatorsFile(path string) (map[string]bson.M, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading validators file '%s'", path)
	}

	validators := map[string]bson.M{}
	if err = bson.UnmarshalExtJSON(data, false, &validators); err != nil {
		return nil, errors.Wrapf(err, "parsing validators file '%s'", path)
	}
	return validators, nil
}
