package db

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	NoSkip  = 0
	NoLimit = 0
)

// Q holds all information necessary to execute a query.
type Q struct {
	filter     any
	projection any
	sort       []string
	skip       int
	limit      int
	maxTime    time.Duration
}

// Query creates a db.Q for the given filter. A nil filter matches every
// document.
func Query(filter any) Q {
	if filter == nil {
		filter = bson.M{}
	}
	return Q{filter: filter}
}

// Filter returns the filter of the query.
func (q Q) Filter() any { return q.filter }

// Project sets the projection for the query.
func (q Q) Project(projection any) Q {
	q.projection = projection
	return q
}

// WithFields limits the results of the query to the given fields.
func (q Q) WithFields(fields ...string) Q {
	projection := bson.M{}
	for _, f := range fields {
		projection[f] = 1
	}
	q.projection = projection
	return q
}

// WithoutFields excludes the given fields from the results.
func (q Q) WithoutFields(fields ...string) Q {
	projection := bson.M{}
	for _, f := range fields {
		projection[f] = 0
	}
	q.projection = projection
	return q
}

// Sort orders the results by the given fields. A field prefixed with "-"
// sorts descending.
func (q Q) Sort(sort []string) Q {
	q.sort = sort
	return q
}

func (q Q) Skip(skip int) Q {
	q.skip = skip
	return q
}

// Limit caps the number of results. Zero means no limit.
func (q Q) Limit(limit int) Q {
	q.limit = limit
	return q
}

func (q Q) MaxTime(duration time.Duration) Q {
	q.maxTime = duration
	return q
}

func (q Q) findOptions() *options.FindOptions {
	opts := options.Find()
	if q.projection != nil {
		opts.SetProjection(q.projection)
	}
	if len(q.sort) > 0 {
		opts.SetSort(sortDocument(q.sort))
	}
	if q.skip > 0 {
		opts.SetSkip(int64(q.skip))
	}
	if q.limit > 0 {
		opts.SetLimit(int64(q.limit))
	}
	if q.maxTime > 0 {
		opts.SetMaxTime(q.maxTime)
	}
	return opts
}

func (q Q) findOneOptions() *options.FindOneOptions {
	opts := options.FindOne()
	if q.projection != nil {
		opts.SetProjection(q.projection)
	}
	if len(q.sort) > 0 {
		opts.SetSort(sortDocument(q.sort))
	}
	if q.skip > 0 {
		opts.SetSkip(int64(q.skip))
	}
	if q.maxTime > 0 {
		opts.SetMaxTime(q.maxTime)
	}
	return opts
}

func sortDocument(fields []string) bson.D {
	sort := bson.D{}
	for _, f := range fields {
		if f == "" {
			continue
		}
		if strings.HasPrefix(f, "-") {
			sort = append(sort, bson.E{Key: f[1:], Value: -1})
			continue
		}
		sort = append(sort, bson.E{Key: f, Value: 1})
	}
	return sort
}
