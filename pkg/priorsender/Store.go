package priorsender

import "bytes"
import "os"
import "path/filepath"

import bolt "go.etcd.io/bbolt"

import "tsquorum/pkg/lsa"

//=========================================== Durable Prior Log Store


/*
	Store persists prior records keyed by their LSA in a single bbolt
	bucket, so a newly attached sink (or a crash-recovered one) can replay
	everything from its resume point forward. Bucket layout and the
	cursor-seek-range idiom are carried over from the teacher's write
	ahead log package.
*/

type Store struct {
	DB *bolt.DB
}

const subDirectory = ".tsquorum"
const bucketName = "prior_log"

func OpenStore(dbName string) (*Store, error) {
	homedir, homeErr := os.UserHomeDir()
	if homeErr != nil { return nil, homeErr }

	dbPath := filepath.Join(homedir, subDirectory, dbName+".db")
	if mkdirErr := os.MkdirAll(filepath.Dir(dbPath), 0700); mkdirErr != nil { return nil, mkdirErr }

	db, openErr := bolt.Open(dbPath, 0600, nil)
	if openErr != nil { return nil, openErr }

	createBucket := func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists([]byte(bucketName))
		return createErr
	}

	if bucketErr := db.Update(createBucket); bucketErr != nil { return nil, bucketErr }

	return &Store{ DB: db }, nil
}

func (store *Store) Put(at lsa.LSA, record []byte) error {
	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		return bucket.Put(at.Encode(), record)
	}

	return store.DB.Update(transaction)
}

/*
	Replay calls visit for every record with LSA >= from, in ascending
	order, so a freshly attached sink can catch up from its resume point.
*/

func (store *Store) Replay(from lsa.LSA, visit func(at lsa.LSA, record []byte) error) error {
	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		cursor := bucket.Cursor()

		startKey := from.Encode()

		key, val := cursor.Seek(startKey)
		if from.IsNull() { key, val = cursor.First() }

		for ; key != nil; key, val = cursor.Next() {
			if !from.IsNull() && bytes.Compare(key, startKey) < 0 { continue }

			decoded, decodeErr := lsa.Decode(key)
			if decodeErr != nil { return decodeErr }

			if visitErr := visit(decoded, val); visitErr != nil { return visitErr }
		}

		return nil
	}

	return store.DB.View(transaction)
}

func (store *Store) Close() error { return store.DB.Close() }
