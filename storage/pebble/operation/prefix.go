package operation

const (
	codeChallenge      = 10
	codeChallengeIndex = 11
	codeProcessedIndex = 20
)

func makeKey(code byte, suffix []byte) []byte {
	return append([]byte{code}, suffix...)
}
