package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonasBak/gtp/driver"
)

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*TreeDiff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, diff.Message)
			diffLines = append(diffLines, fmt.Sprintf("%vexpected path: %v", indent1, diff.ExpectedPath))
			diffLines = append(diffLines, fmt.Sprintf("%vactual path:   %v", indent1, diff.ActualPath))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases walks a test case file or a directory of them.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCaseFile(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCaseFile(testCasePath string) (*TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTestCase(f)
}

type Tester struct {
	Parser *driver.Parser
	Cases  []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, runTest(t.Parser, c))
	}
	return rs
}

func runTest(p *driver.Parser, c *TestCaseWithMetadata) *TestResult {
	if c.Error != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        c.Error,
		}
	}

	input := string(c.TestCase.Source)
	root, end, err := p.ParsePrefix(input)
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}
	if rest := p.Rest(input, end); rest != "" {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("input not fully consumed: %q is left over", rest),
		}
	}

	diffs := DiffTree(c.TestCase.Output, genTree(root).Fill())
	if len(diffs) > 0 {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diffs:        diffs,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}

func genTree(node *driver.Node) *Tree {
	if node.Leaf() {
		return NewLeaf(node.Type, node.Raw)
	}
	children := make([]*Tree, len(node.Children))
	for i, c := range node.Children {
		children[i] = genTree(c)
	}
	return NewTree(node.Type, children...)
}
