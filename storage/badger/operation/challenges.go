package operation

import (
	"github.com/dgraph-io/badger/v2"
	"github.com/vmihailenco/msgpack/v4"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module/irrecoverable"
)

func UpsertChallenge(challenge *dispute.Challenge) func(*badger.Txn) error {
	return upsert(makePrefix(codeChallenge, [32]byte(challenge.ID)), challenge)
}

func RetrieveChallenge(id dispute.ChallengeID, challenge *dispute.Challenge) func(*badger.Txn) error {
	return retrieve(makePrefix(codeChallenge, [32]byte(id)), challenge)
}

func RemoveChallenge(id dispute.ChallengeID) func(*badger.Txn) error {
	return remove(makePrefix(codeChallenge, [32]byte(id)))
}

// TraverseChallenges decodes every stored challenge and passes it to handle.
func TraverseChallenges(handle func(*dispute.Challenge) error) func(*badger.Txn) error {
	return traverse(makePrefix(codeChallenge), func(_ []byte, val []byte) error {
		var challenge dispute.Challenge
		if err := msgpack.Unmarshal(val, &challenge); err != nil {
			return irrecoverable.NewExceptionf("could not decode challenge: %w", err)
		}
		return handle(&challenge)
	})
}
