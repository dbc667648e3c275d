package contracts

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// TasksABI is the interface of the task registry contract.
const TasksABI = `[
{"type":"function","name":"getTaskInfo","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"giver","type":"address"},{"name":"code","type":"bytes32"},{"name":"input","type":"bytes32"},{"name":"init","type":"bytes32"},{"name":"result","type":"bytes32"},{"name":"steps","type":"uint256"}]},
{"type":"function","name":"getVMParameters","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"stackSize","type":"uint8"},{"name":"memorySize","type":"uint8"},{"name":"callSize","type":"uint8"},{"name":"globalsSize","type":"uint8"},{"name":"tableSize","type":"uint8"}]},
{"type":"function","name":"queryChallenge","stateMutability":"view","inputs":[{"name":"uniq","type":"bytes32"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"solve","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"},{"name":"result","type":"bytes32"},{"name":"steps","type":"uint256"}],"outputs":[]},
{"type":"function","name":"finalizeTask","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"},{"name":"file","type":"bytes32"},{"name":"roots","type":"bytes32[10]"},{"name":"pointers","type":"uint256[4]"},{"name":"proof","type":"bytes32[]"},{"name":"location","type":"uint256"}],"outputs":[]}
]`

// InteractiveABI is the interface of the interactive verification game contract.
const InteractiveABI = `[
{"type":"event","name":"StartChallenge","anonymous":false,"inputs":[{"name":"p","type":"address","indexed":false},{"name":"c","type":"address","indexed":false},{"name":"s","type":"bytes32","indexed":false},{"name":"e","type":"bytes32","indexed":false},{"name":"idx1","type":"uint256","indexed":false},{"name":"idx2","type":"uint256","indexed":false},{"name":"par","type":"uint256","indexed":false},{"name":"to","type":"uint256","indexed":false},{"name":"uniq","type":"bytes32","indexed":false}]},
{"type":"event","name":"StartFinalityChallenge","anonymous":false,"inputs":[{"name":"p","type":"address","indexed":false},{"name":"c","type":"address","indexed":false},{"name":"s","type":"bytes32","indexed":false},{"name":"e","type":"bytes32","indexed":false},{"name":"step","type":"uint256","indexed":false},{"name":"uniq","type":"bytes32","indexed":false}]},
{"type":"event","name":"Queried","anonymous":false,"inputs":[{"name":"id","type":"bytes32","indexed":false},{"name":"idx1","type":"uint256","indexed":false},{"name":"idx2","type":"uint256","indexed":false}]},
{"type":"event","name":"PostedErrorPhases","anonymous":false,"inputs":[{"name":"id","type":"bytes32","indexed":false},{"name":"idx1","type":"uint256","indexed":false},{"name":"arr","type":"bytes32[12]","indexed":false}]},
{"type":"event","name":"SelectedPhase","anonymous":false,"inputs":[{"name":"id","type":"bytes32","indexed":false},{"name":"idx1","type":"uint256","indexed":false},{"name":"phase","type":"uint256","indexed":false}]},
{"type":"function","name":"report","stateMutability":"nonpayable","inputs":[{"name":"id","type":"bytes32"},{"name":"idx1","type":"uint256"},{"name":"idx2","type":"uint256"},{"name":"arr","type":"bytes32[]"}],"outputs":[]},
{"type":"function","name":"postPhases","stateMutability":"nonpayable","inputs":[{"name":"id","type":"bytes32"},{"name":"idx1","type":"uint256"},{"name":"arr","type":"bytes32[12]"}],"outputs":[]},
{"type":"function","name":"selectErrorPhase","stateMutability":"nonpayable","inputs":[{"name":"id","type":"bytes32"},{"name":"idx1","type":"uint256"},{"name":"st","type":"bytes32"},{"name":"phase","type":"uint256"}],"outputs":[]},
{"type":"function","name":"callJudge","stateMutability":"nonpayable","inputs":[{"name":"id","type":"bytes32"},{"name":"idx1","type":"uint256"},{"name":"phase","type":"uint256"},{"name":"proof","type":"bytes32[]"},{"name":"vm","type":"bytes32"},{"name":"op","type":"bytes32"},{"name":"regs","type":"uint256[4]"},{"name":"roots","type":"bytes32[10]"},{"name":"pointers","type":"uint256[4]"}],"outputs":[]},
{"type":"function","name":"callFinalityJudge","stateMutability":"nonpayable","inputs":[{"name":"id","type":"bytes32"},{"name":"idx1","type":"uint256"},{"name":"location","type":"bytes32[]"},{"name":"roots","type":"bytes32[10]"},{"name":"pointers","type":"uint256[4]"}],"outputs":[]}
]`

// FilesystemABI is the interface of the file storage contract.
const FilesystemABI = `[
{"type":"function","name":"getName","stateMutability":"view","inputs":[{"name":"id","type":"bytes32"}],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"getData","stateMutability":"view","inputs":[{"name":"id","type":"bytes32"}],"outputs":[{"name":"","type":"bytes32[]"}]},
{"type":"function","name":"getByteSize","stateMutability":"view","inputs":[{"name":"id","type":"bytes32"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"getRoot","stateMutability":"view","inputs":[{"name":"id","type":"bytes32"}],"outputs":[{"name":"","type":"bytes32"}]},
{"type":"function","name":"calcId","stateMutability":"view","inputs":[{"name":"nonce","type":"uint256"}],"outputs":[{"name":"","type":"bytes32"}]},
{"type":"function","name":"setSize","stateMutability":"nonpayable","inputs":[{"name":"id","type":"bytes32"},{"name":"size","type":"uint256"}],"outputs":[]},
{"type":"function","name":"setLeafs","stateMutability":"nonpayable","inputs":[{"name":"id","type":"bytes32"},{"name":"arr","type":"bytes32[]"},{"name":"a","type":"uint256"},{"name":"b","type":"uint256"}],"outputs":[]},
{"type":"function","name":"createFileWithContents","stateMutability":"nonpayable","inputs":[{"name":"name","type":"string"},{"name":"nonce","type":"uint256"},{"name":"arr","type":"bytes32[]"},{"name":"size","type":"uint256"}],"outputs":[{"name":"","type":"bytes32"}]}
]`

var (
	tasksABI       = mustParse("tasks", TasksABI)
	interactiveABI = mustParse("interactive", InteractiveABI)
	filesystemABI  = mustParse("filesystem", FilesystemABI)
)

func mustParse(name, definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(fmt.Sprintf("invalid %s abi: %v", name, err))
	}
	return parsed
}
