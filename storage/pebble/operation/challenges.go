package operation

import (
	"errors"

	"github.com/cockroachdb/pebble"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/storage"
)

func challengeKey(id dispute.ChallengeID) []byte {
	return makeKey(codeChallenge, id[:])
}

// challengeIndexKey holds the ids of all stored challenges, so they can be
// listed without a key scan.
var challengeIndexKey = []byte{codeChallengeIndex}

func InsertChallenge(challenge *dispute.Challenge) func(pebble.Writer) error {
	return insert(challengeKey(challenge.ID), challenge)
}

func RetrieveChallenge(id dispute.ChallengeID, challenge *dispute.Challenge) func(pebble.Reader) error {
	return retrieve(challengeKey(id), challenge)
}

func RemoveChallenge(id dispute.ChallengeID) func(pebble.Writer) error {
	return remove(challengeKey(id))
}

// RetrieveChallengeIndex reads the ids of all stored challenges. A missing
// index is an empty index.
func RetrieveChallengeIndex(ids *[]dispute.ChallengeID) func(pebble.Reader) error {
	return func(r pebble.Reader) error {
		err := retrieve(challengeIndexKey, ids)(r)
		if errors.Is(err, storage.ErrNotFound) {
			*ids = nil
			return nil
		}
		return err
	}
}

func InsertChallengeIndex(ids []dispute.ChallengeID) func(pebble.Writer) error {
	return insert(challengeIndexKey, ids)
}
