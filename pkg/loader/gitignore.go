package loader

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// StateDirName is the per-project directory for persisted tree state.
const StateDirName = ".checktree"

const gitignoreComment = "# checktree local state"

// EnsureStateDirInGitignore makes sure .checktree/ is listed in the
// project's .gitignore, creating the file if needed. Calling it again is a
// no-op once the entry exists.
func EnsureStateDirInGitignore(projectDir string) error {
	if projectDir == "" {
		var err error
		projectDir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	gitignorePath := filepath.Join(projectDir, ".gitignore")

	present, err := isStateDirIgnored(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if present {
		return nil
	}
	return appendToGitignore(gitignorePath, StateDirName+"/")
}

// isStateDirIgnored reports whether some line of the .gitignore at path
// already covers the state directory.
func isStateDirIgnored(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if matchesStateDirPattern(line) {
			return true, nil
		}
	}
	return false, scanner.Err()
}

// matchesStateDirPattern checks a single gitignore line. A leading slash is
// ignored.
func matchesStateDirPattern(line string) bool {
	switch strings.TrimPrefix(line, "/") {
	case StateDirName, StateDirName + "/", StateDirName + "/*", StateDirName + "/**", StateDirName + "/**/*":
		return true
	}
	return false
}

// appendToGitignore appends pattern under a comment, separated from existing
// content by a blank line.
func appendToGitignore(path string, pattern string) error {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	var toWrite string
	if len(content) == 0 {
		toWrite = gitignoreComment + "\n" + pattern + "\n"
	} else {
		if content[len(content)-1] != '\n' {
			toWrite = "\n"
		}
		toWrite += "\n" + gitignoreComment + "\n" + pattern + "\n"
	}

	_, err = file.WriteString(toWrite)
	return err
}
