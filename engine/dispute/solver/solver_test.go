package solver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module/mempool/sessions"
	"github.com/onflow/dispute-client/module/metrics"
	mockmodule "github.com/onflow/dispute-client/module/mock"
	"github.com/onflow/dispute-client/utils/unittest"
)

type SolverSuite struct {
	suite.Suite

	dir        string
	tasks      *mockmodule.TaskClient
	files      *mockmodule.FileStore
	execution  *mockmodule.ExecutionEngine
	sessions   *sessions.Sessions
	solver     *Solver
	assignment *dispute.Assignment
	params     *dispute.VMParameters
	task       *dispute.Task
	code       *dispute.File
	input      *dispute.File
	result     *dispute.ExecutionResult
}

func TestSolver(t *testing.T) {
	suite.Run(t, new(SolverSuite))
}

func (s *SolverSuite) SetupTest() {
	s.dir = unittest.TempDir(s.T())
	s.T().Cleanup(func() { _ = os.RemoveAll(s.dir) })

	s.tasks = mockmodule.NewTaskClient(s.T())
	s.files = mockmodule.NewFileStore(s.T())
	s.execution = mockmodule.NewExecutionEngine(s.T())
	s.sessions = sessions.NewSessions()

	config := DefaultConfig()
	config.WorkDir = s.dir
	s.solver = New(unittest.Logger(), config, s.tasks, s.files, s.execution, s.sessions, metrics.NewNoopCollector())

	s.assignment = &dispute.Assignment{
		TaskID:   unittest.TaskIDFixture(),
		Actor:    unittest.AddressFixture(),
		Giver:    unittest.AddressFixture(),
		InitHash: unittest.HashFixture(),
		Code:     unittest.FileIDFixture(),
		CodeType: dispute.CodeWAST,
		Input:    unittest.FileIDFixture(),
	}
	s.task = &dispute.Task{
		ID:       s.assignment.TaskID,
		Giver:    s.assignment.Giver,
		CodeRef:  s.assignment.Code,
		InputRef: s.assignment.Input,
		InitHash: s.assignment.InitHash,
	}
	s.params = &dispute.VMParameters{StackSize: 14, MemorySize: 16, CallSize: 10, GlobalsSize: 8, TableSize: 8}
	s.code = &dispute.File{Name: "task.wast", Data: []byte("(module)")}
	s.input = &dispute.File{Name: "input.bin", Data: []byte{1, 2, 3}}
	s.result = &dispute.ExecutionResult{
		Result: unittest.HashFixture(),
		Steps:  1024,
		Output: []byte("output"),
	}
}

// program is the program the solver materializes for the assignment.
func (s *SolverSuite) program() dispute.Program {
	return dispute.Program{
		Dir:        filepath.Join(s.dir, s.assignment.TaskID.String()),
		CodeFile:   "task.wast",
		CodeType:   dispute.CodeWAST,
		InputFiles: []string{"input.bin"},
		Params:     *s.params,
	}
}

func (s *SolverSuite) expectFetch() {
	s.files.On("GetFile", mock.Anything, s.assignment.Code).Return(s.code, nil).Once()
	s.files.On("GetFile", mock.Anything, s.assignment.Input).Return(s.input, nil).Once()
	s.tasks.On("VMParameters", mock.Anything, s.assignment.TaskID).Return(s.params, nil).Once()
	s.tasks.On("TaskInfo", mock.Anything, s.assignment.TaskID).Return(s.task, nil).Once()
}

func (s *SolverSuite) expectExecution(initHash interface{}) {
	s.execution.On("Initialize", mock.Anything, s.program()).Return(initHash, nil).Once()
	s.execution.On("Execute", mock.Anything, s.program()).Return(s.result, nil).Once()
}

// TestSolveAndFinalize solves a task producing output and finalizes it.
func (s *SolverSuite) TestSolveAndFinalize() {
	s.expectFetch()
	s.expectExecution(s.assignment.InitHash)

	file := unittest.FileIDFixture()
	proof := &dispute.OutputProof{VM: unittest.VMStateFixture(), List: unittest.HashesFixture(3), Location: 2}
	s.tasks.On("Solve", mock.Anything, s.assignment.TaskID, s.result.Result, s.result.Steps).
		Run(func(mock.Arguments) {
			// challenges may arrive as soon as the solution is sent
			_, ok := s.sessions.ByTask(s.assignment.TaskID)
			s.Require().True(ok)
		}).
		Return(nil).Once()
	s.files.On("CreateFile", mock.Anything, "task.out", s.result.Output).Return(file, nil).Once()
	s.files.On("Root", mock.Anything, file).Return(unittest.HashFixture(), nil).Once()
	s.execution.On("OutputProof", mock.Anything, s.program()).Return(proof, nil).Once()
	s.tasks.On("FinalizeTask", mock.Anything, s.assignment.TaskID, file, proof).Return(nil).Once()

	outcome, err := s.solver.Run(context.Background(), s.assignment)
	s.Require().NoError(err)
	s.Assert().Equal(&Outcome{
		Result:     s.result.Result,
		Steps:      s.result.Steps,
		OutputFile: &file,
		Finalized:  true,
		output:     s.result.Output,
	}, outcome)

	code, err := os.ReadFile(filepath.Join(s.program().Dir, "task.wast"))
	s.Require().NoError(err)
	s.Assert().Equal(s.code.Data, code)
	input, err := os.ReadFile(filepath.Join(s.program().Dir, "input.bin"))
	s.Require().NoError(err)
	s.Assert().Equal(s.input.Data, input)

	session, ok := s.sessions.ByTask(s.assignment.TaskID)
	s.Require().True(ok)
	s.Assert().Equal(s.assignment.Actor, session.Actor)
	s.Assert().Equal(s.result.Steps, session.Steps)
	s.Assert().Equal(s.program(), session.Program)
}

// TestInitHashMismatch checks that a wrong initial hash degrades the outcome
// without aborting the run.
func (s *SolverSuite) TestInitHashMismatch() {
	s.result.Output = nil
	s.expectFetch()
	s.expectExecution(unittest.HashFixture())
	s.tasks.On("Solve", mock.Anything, s.assignment.TaskID, s.result.Result, s.result.Steps).Return(nil).Once()

	outcome, err := s.solver.Run(context.Background(), s.assignment)
	s.Require().NoError(err)
	s.Assert().True(outcome.Degraded)
	s.Assert().False(outcome.Finalized)
	s.Assert().Nil(outcome.OutputFile)
}

// TestRecordedInitHash checks that the initial state hash of the task record
// is the claim the computed hash is compared with.
func (s *SolverSuite) TestRecordedInitHash() {
	s.result.Output = nil
	s.task.InitHash = unittest.HashFixture()
	s.expectFetch()
	s.expectExecution(s.task.InitHash)
	s.tasks.On("Solve", mock.Anything, s.assignment.TaskID, s.result.Result, s.result.Steps).Return(nil).Once()

	outcome, err := s.solver.Run(context.Background(), s.assignment)
	s.Require().NoError(err)
	s.Assert().False(outcome.Degraded)
}

// TestFetchFailure checks that nothing is executed if a file cannot be fetched.
func (s *SolverSuite) TestFetchFailure() {
	s.files.On("GetFile", mock.Anything, s.assignment.Code).Return(nil, errors.New("no such file")).Once()
	s.files.On("GetFile", mock.Anything, s.assignment.Input).Return(s.input, nil).Maybe()
	s.tasks.On("VMParameters", mock.Anything, s.assignment.TaskID).Return(s.params, nil).Maybe()
	s.tasks.On("TaskInfo", mock.Anything, s.assignment.TaskID).Return(s.task, nil).Maybe()

	outcome, err := s.solver.Run(context.Background(), s.assignment)
	s.Require().Error(err)
	s.Assert().Nil(outcome)
	_, ok := s.sessions.ByTask(s.assignment.TaskID)
	s.Assert().False(ok)
}

// TestSolveFailure checks that the session is dropped if the solution was not sent.
func (s *SolverSuite) TestSolveFailure() {
	s.expectFetch()
	s.expectExecution(s.assignment.InitHash)
	s.tasks.On("Solve", mock.Anything, s.assignment.TaskID, s.result.Result, s.result.Steps).
		Return(errors.New("execution reverted")).Once()

	outcome, err := s.solver.Run(context.Background(), s.assignment)
	s.Require().Error(err)
	s.Assert().Nil(outcome)
	_, ok := s.sessions.ByTask(s.assignment.TaskID)
	s.Assert().False(ok)
}

// TestFinalizeFailure reports the uploaded file even if finalization failed.
func (s *SolverSuite) TestFinalizeFailure() {
	s.expectFetch()
	s.expectExecution(s.assignment.InitHash)

	file := unittest.FileIDFixture()
	s.tasks.On("Solve", mock.Anything, s.assignment.TaskID, s.result.Result, s.result.Steps).Return(nil).Once()
	s.files.On("CreateFile", mock.Anything, "task.out", s.result.Output).Return(file, nil).Once()
	s.files.On("Root", mock.Anything, file).Return(common.Hash{}, errors.New("unknown file")).Once()
	s.execution.On("OutputProof", mock.Anything, s.program()).Return(nil, errors.New("interpreter crashed")).Once()

	outcome, err := s.solver.Run(context.Background(), s.assignment)
	s.Require().Error(err)
	s.Require().NotNil(outcome)
	s.Assert().Equal(&file, outcome.OutputFile)
	s.Assert().False(outcome.Finalized)

	// the solution was sent, so challenges against it are still answered
	_, ok := s.sessions.ByTask(s.assignment.TaskID)
	s.Assert().True(ok)
}

// TestResume rebuilds the session of a solved task without submitting anything.
func (s *SolverSuite) TestResume() {
	s.expectFetch()
	s.expectExecution(s.assignment.InitHash)

	outcome, err := s.solver.Resume(context.Background(), s.assignment)
	s.Require().NoError(err)
	s.Assert().Equal(s.result.Steps, outcome.Steps)
	s.Assert().False(outcome.Finalized)

	session, ok := s.sessions.ByTask(s.assignment.TaskID)
	s.Require().True(ok)
	s.Assert().Equal(s.result.Result, session.Result)
	s.tasks.AssertNotCalled(s.T(), "Solve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
