package store

import (
	"bytes"
	"encoding/binary"
	"strings"

	bolt "go.etcd.io/bbolt"
	"src.nush.dev/pkg/store/storedefs"
)

func init() {
	initDB["initialize command history table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	}
}

// NextCmdSeq returns the sequence number the next added command will get.
func (s *dbStore) NextCmdSeq() (int, error) {
	var seq uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		seq = tx.Bucket([]byte(bucketCmd)).Sequence() + 1
		return nil
	})
	return int(seq), err
}

// AddCmd appends a command line to the history and returns its sequence
// number. Blank lines are not recorded and return 0. A line identical to the
// newest entry is not recorded again; the sequence number of that entry is
// returned instead.
func (s *dbStore) AddCmd(text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		if k, v := b.Cursor().Last(); k != nil && string(v) == text {
			seq = unmarshalSeq(k)
			return nil
		}
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), []byte(text))
	})
	return int(seq), err
}

// DelCmd deletes the history entry with the given sequence number.
func (s *dbStore) DelCmd(seq int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketCmd)).Delete(marshalSeq(uint64(seq)))
	})
}

// Cmd returns the text of the history entry with the given sequence number.
func (s *dbStore) Cmd(seq int) (string, error) {
	var text string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketCmd)).Get(marshalSeq(uint64(seq)))
		if v == nil {
			return storedefs.ErrNoMatchingCmd
		}
		text = string(v)
		return nil
	})
	return text, err
}

// CmdsWithSeq returns all entries with sequence numbers in [from, upto).
func (s *dbStore) CmdsWithSeq(from, upto int) ([]storedefs.Cmd, error) {
	var cmds []storedefs.Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		for k, v := c.Seek(marshalSeq(uint64(from))); k != nil && unmarshalSeq(k) < uint64(upto); k, v = c.Next() {
			cmds = append(cmds, storedefs.Cmd{Text: string(v), Seq: int(unmarshalSeq(k))})
		}
		return nil
	})
	return cmds, err
}

// LastCmds returns up to n of the newest entries, oldest first.
func (s *dbStore) LastCmds(n int) ([]storedefs.Cmd, error) {
	var cmds []storedefs.Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		for k, v := c.Last(); k != nil && len(cmds) < n; k, v = c.Prev() {
			cmds = append(cmds, storedefs.Cmd{Text: string(v), Seq: int(unmarshalSeq(k))})
		}
		return nil
	})
	for i, j := 0, len(cmds)-1; i < j; i, j = i+1, j-1 {
		cmds[i], cmds[j] = cmds[j], cmds[i]
	}
	return cmds, err
}

// NextCmd finds the first entry at or after from whose text has the given
// prefix.
func (s *dbStore) NextCmd(from int, prefix string) (storedefs.Cmd, error) {
	var cmd storedefs.Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		p := []byte(prefix)
		for k, v := c.Seek(marshalSeq(uint64(from))); k != nil; k, v = c.Next() {
			if bytes.HasPrefix(v, p) {
				cmd = storedefs.Cmd{Text: string(v), Seq: int(unmarshalSeq(k))}
				return nil
			}
		}
		return storedefs.ErrNoMatchingCmd
	})
	return cmd, err
}

// PrevCmd finds the last entry before upto whose text has the given prefix.
func (s *dbStore) PrevCmd(upto int, prefix string) (storedefs.Cmd, error) {
	var cmd storedefs.Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		p := []byte(prefix)

		var k, v []byte
		if k, _ = c.Seek(marshalSeq(uint64(upto))); k == nil {
			k, v = c.Last()
		} else {
			k, v = c.Prev()
		}
		for ; k != nil; k, v = c.Prev() {
			if bytes.HasPrefix(v, p) {
				cmd = storedefs.Cmd{Text: string(v), Seq: int(unmarshalSeq(k))}
				return nil
			}
		}
		return storedefs.ErrNoMatchingCmd
	})
	return cmd, err
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
