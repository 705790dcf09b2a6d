package store

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Firestore is the production Store backed by Cloud Firestore.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore connects to Firestore for the given project. The credentials
// file is optional; without it the default application credentials are used.
func NewFirestore(ctx context.Context, projectID, credentialsFile string) (*Firestore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: init app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore: init client: %w", err)
	}

	log.Printf("✅ Connected to Firestore project %s", projectID)
	return &Firestore{client: client}, nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}

func (f *Firestore) query(collection, orderBy string) firestore.Query {
	q := f.client.Collection(collection).Query
	if orderBy != "" {
		field, dir := orderBy, firestore.Asc
		if strings.HasPrefix(field, "-") {
			field, dir = field[1:], firestore.Desc
		}
		q = q.OrderBy(field, dir)
	}
	return q
}

func (f *Firestore) List(ctx context.Context, collection, orderBy string) ([]Record, error) {
	iter := f.query(collection, orderBy).Documents(ctx)
	defer iter.Stop()

	var records []Record
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify(err)
		}
		records = append(records, Record{Key: doc.Ref.ID, Data: doc.Data()})
	}
	return records, nil
}

func (f *Firestore) Get(ctx context.Context, collection, key string) (Record, error) {
	snap, err := f.client.Collection(collection).Doc(key).Get(ctx)
	if err != nil {
		return Record{}, classify(err)
	}
	return Record{Key: snap.Ref.ID, Data: snap.Data()}, nil
}

func (f *Firestore) Set(ctx context.Context, collection, key string, data map[string]interface{}, merge bool) error {
	clean, err := Sanitize(data)
	if err != nil {
		return err
	}
	doc := f.client.Collection(collection).Doc(key)
	if merge {
		_, err = doc.Set(ctx, clean, firestore.MergeAll)
	} else {
		_, err = doc.Set(ctx, clean)
	}
	return classify(err)
}

func (f *Firestore) Update(ctx context.Context, collection, key string, fields map[string]interface{}) error {
	clean, err := Sanitize(fields)
	if err != nil {
		return err
	}
	updates := make([]firestore.Update, 0, len(clean))
	for k, v := range clean {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	_, err = f.client.Collection(collection).Doc(key).Update(ctx, updates)
	return classify(err)
}

func (f *Firestore) Delete(ctx context.Context, collection, key string) error {
	_, err := f.client.Collection(collection).Doc(key).Delete(ctx)
	return classify(err)
}

func (f *Firestore) Subscribe(ctx context.Context, collection, orderBy string, fn func([]Record)) (*Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)
	snaps := f.query(collection, orderBy).Snapshots(subCtx)

	go func() {
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if subCtx.Err() == nil {
					log.Printf("❌ Firestore subscription on %s ended: %v", collection, err)
				}
				return
			}
			var records []Record
			docs := snap.Documents
			for {
				doc, err := docs.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					log.Printf("❌ Firestore subscription read on %s: %v", collection, err)
					return
				}
				records = append(records, Record{Key: doc.Ref.ID, Data: doc.Data()})
			}
			fn(records)
		}
	}()

	return NewSubscription(cancel), nil
}
