package store

import (
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor"
	"github.com/go-errors/errors"
	"go.etcd.io/bbolt"

	"github.com/privacybydesign/irmamobile/internal/fs"
)

// Storage persists the slices of the state that survive a restart of the app.
type Storage struct {
	storagePath string
	db          *bbolt.DB
}

// Filenames
const databaseFile = "wallet.db"

// Bucketnames bbolt
const (
	userdataBucket = "userdata"    // Key/value: specified below
	preferencesKey = "preferences" // Value: Preferences
	enrollmentKey  = "enrollment"  // Value: storedEnrollment
)

// Only the registrations are kept; an enrollment in progress does not survive a restart.
type storedEnrollment struct {
	Enrolled []string `cbor:"enrolled"`
}

// OpenStorage opens the database in dir, creating dir if necessary.
func OpenStorage(dir string) (*Storage, error) {
	if err := fs.EnsureDirectoryExists(dir); err != nil {
		return nil, err
	}
	s := &Storage{storagePath: dir}
	var err error
	s.db, err = bbolt.Open(s.path(databaseFile), 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to open database", 0)
	}
	return s, nil
}

func (s *Storage) path(p string) string {
	return filepath.Join(s.storagePath, p)
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) txStore(tx *bbolt.Tx, key string, value interface{}, bucketName string) error {
	b, err := tx.CreateBucketIfNotExists([]byte(bucketName))
	if err != nil {
		return err
	}
	btsValue, err := cbor.Marshal(value, cbor.EncOptions{})
	if err != nil {
		return err
	}

	return b.Put([]byte(key), btsValue)
}

func (s *Storage) txLoad(tx *bbolt.Tx, key string, dest interface{}, bucketName string) (found bool, err error) {
	b := tx.Bucket([]byte(bucketName))
	if b == nil {
		return false, nil
	}
	bts := b.Get([]byte(key))
	if bts == nil {
		return false, nil
	}
	return true, cbor.Unmarshal(bts, dest)
}

func (s *Storage) load(key string, dest interface{}, bucketName string) (found bool, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		found, err = s.txLoad(tx, key, dest, bucketName)
		return err
	})
	return
}

func (s *Storage) StorePreferences(prefs Preferences) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return s.txStore(tx, preferencesKey, prefs, userdataBucket)
	})
}

// LoadPreferences returns the stored preferences, or the defaults if none were stored.
func (s *Storage) LoadPreferences() (Preferences, error) {
	prefs := DefaultPreferences()
	_, err := s.load(preferencesKey, &prefs, userdataBucket)
	if err != nil {
		return DefaultPreferences(), errors.WrapPrefix(err, "failed to load preferences", 0)
	}
	return prefs, nil
}

func (s *Storage) StoreEnrollment(enrollment Enrollment) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return s.txStore(tx, enrollmentKey, storedEnrollment{Enrolled: enrollment.Enrolled}, userdataBucket)
	})
}

func (s *Storage) LoadEnrollment() (Enrollment, error) {
	var stored storedEnrollment
	if _, err := s.load(enrollmentKey, &stored, userdataBucket); err != nil {
		return Enrollment{}, errors.WrapPrefix(err, "failed to load enrollment", 0)
	}
	return Enrollment{Enrolled: stored.Enrolled}, nil
}
