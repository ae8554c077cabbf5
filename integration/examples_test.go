//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ExampleSuite struct {
	suite.Suite
	repoRoot string
}

func (s *ExampleSuite) SetupSuite() {
	if os.Getenv("XGBOOST_TEST_EXAMPLES") == "" {
		s.T().Skip("set XGBOOST_TEST_EXAMPLES=1 to run example integration tests")
	}
	root, err := detectRepoRoot()
	require.NoError(s.T(), err, "locate repository root")
	s.repoRoot = root
}

func (s *ExampleSuite) TestRegressionBasic() {
	output := s.runExample("examples/regression_basic", []string{"XGB_EXAMPLE_ROUNDS=50"})
	require.Contains(s.T(), output, "row 4: label=65.0")
}

func (s *ExampleSuite) TestPersistRoundTrip() {
	output := s.runExample("examples/persist_roundtrip", []string{"XGBSHIM_LOG_LEVEL=error"})
	require.Contains(s.T(), output, "live handles after destroy: 0")
}

func (s *ExampleSuite) runExample(relPath string, extraEnv []string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "go", "run", "./"+relPath)
	env := append(os.Environ(), "CGO_ENABLED=1")
	if len(extraEnv) > 0 {
		env = append(env, extraEnv...)
	}
	cmd.Env = env
	cmd.Dir = s.repoRoot

	output, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		s.FailNowf("example timeout", "example %s timed out:\n%s", relPath, string(output))
	}
	require.NoErrorf(s.T(), err, "example %s failed:\n%s", relPath, string(output))
	return strings.TrimSpace(string(output))
}

func detectRepoRoot() (string, error) {
	root, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root, nil
		}
		next := filepath.Dir(root)
		if next == root {
			return "", fmt.Errorf("could not locate repository root containing go.mod")
		}
		root = next
	}
}

func TestExamples(t *testing.T) {
	suite.Run(t, new(ExampleSuite))
}
