// Package piston is a client for the Piston code execution engine
// (https://github.com/engineer-man/piston). The coordinator treats it
// as an opaque asynchronous runner: it never returns an error for a
// failed execution, only an ExecutionResult describing the failure.
package piston

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the public Piston instance.
	DefaultBaseURL = "https://emkc.org/api/v2/piston"

	requestTimeout = 15 * time.Second
	compileTimeout = 10000 // ms
	runTimeout     = 3000  // ms
)

// Client executes untrusted code through a Piston instance.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient returns a client for the given Piston instance. An empty
// baseURL selects the public instance.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// ExecutionResult is the outcome of running one piece of code against
// one stdin. Error is set instead of a Go error so a failed execution
// flows into test aggregation like any other outcome.
type ExecutionResult struct {
	Success       bool    `json:"success"`
	Status        string  `json:"status"`
	Stdout        string  `json:"stdout"`
	Stderr        string  `json:"stderr"`
	CompileOutput string  `json:"compileOutput"`
	Time          float64 `json:"time"` // seconds
	Error         string  `json:"error,omitempty"`
}

type executeRequest struct {
	Language           string        `json:"language"`
	Version            string        `json:"version"`
	Files              []executeFile `json:"files"`
	Stdin              string        `json:"stdin"`
	CompileTimeout     int           `json:"compile_timeout"`
	RunTimeout         int           `json:"run_timeout"`
	CompileMemoryLimit int           `json:"compile_memory_limit"`
	RunMemoryLimit     int           `json:"run_memory_limit"`
}

type executeFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type executeResponse struct {
	Run     *stageResult `json:"run"`
	Compile *stageResult `json:"compile"`
}

type stageResult struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Output string `json:"output"`
	Code   int    `json:"code"`
}

// Supports reports whether the client has a runtime for the language.
func (c *Client) Supports(language string) bool {
	_, ok := languageMap[strings.ToLower(language)]
	return ok
}

// Execute runs code with the given stdin and returns the outcome.
func (c *Client) Execute(ctx context.Context, code, language, stdin string) ExecutionResult {
	lang, ok := languageMap[strings.ToLower(language)]
	if !ok {
		return ExecutionResult{
			Success: false,
			Error:   fmt.Sprintf("Unsupported language: %s", language),
		}
	}

	reqBody := executeRequest{
		Language: lang.Language,
		Version:  lang.Version,
		Files: []executeFile{
			{Name: "main." + FileExtension(language), Content: code},
		},
		Stdin:              stdin,
		CompileTimeout:     compileTimeout,
		RunTimeout:         runTimeout,
		CompileMemoryLimit: -1,
		RunMemoryLimit:     -1,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return failure(fmt.Sprintf("failed to encode execution request: %v", err))
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(payload))
	if err != nil {
		return failure(fmt.Sprintf("failed to create execution request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return ExecutionResult{
				Success: false,
				Stderr:  "Network timeout",
				Error:   "Execution timeout - Code took too long to execute",
			}
		}
		log.Error().Err(err).Str("language", language).Msg("piston request failed")
		return failure(err.Error())
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return ExecutionResult{
			Success: false,
			Stderr:  "Too many requests",
			Error:   "Rate limit exceeded. Please try again in a moment.",
		}
	case http.StatusServiceUnavailable:
		return ExecutionResult{
			Success: false,
			Stderr:  "Service unavailable",
			Error:   "Code execution service temporarily unavailable. Please try again.",
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return failure(fmt.Sprintf("execution service returned status %d: %s", resp.StatusCode, string(body)))
	}

	var execResp executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&execResp); err != nil {
		return failure(fmt.Sprintf("failed to decode execution response: %v", err))
	}

	elapsed := time.Since(start).Seconds()

	var output, stderr, compileOutput string
	exitCode := 0
	if execResp.Run != nil {
		output = execResp.Run.Output
		stderr = execResp.Run.Stderr
		exitCode = execResp.Run.Code
	}
	if execResp.Compile != nil {
		compileOutput = execResp.Compile.Output
	}

	success := exitCode == 0 && stderr == ""
	status := "Accepted"
	errMsg := ""
	if exitCode != 0 {
		status = "Runtime Error"
		errMsg = stderr
		if errMsg == "" {
			errMsg = "Execution failed"
		}
	}

	return ExecutionResult{
		Success:       success,
		Status:        status,
		Stdout:        strings.TrimSpace(output),
		Stderr:        strings.TrimSpace(stderr),
		CompileOutput: strings.TrimSpace(compileOutput),
		Time:          elapsed,
		Error:         errMsg,
	}
}

// Runtime describes an available Piston runtime.
type Runtime struct {
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Aliases  []string `json:"aliases"`
}

// Runtimes fetches the runtimes available on the instance. Used for
// debugging runtime version drift against languageMap.
func (c *Client) Runtimes(ctx context.Context) ([]Runtime, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/runtimes", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create runtimes request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runtimes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("runtimes endpoint returned status %d", resp.StatusCode)
	}

	var runtimes []Runtime
	if err := json.NewDecoder(resp.Body).Decode(&runtimes); err != nil {
		return nil, fmt.Errorf("failed to decode runtimes: %w", err)
	}
	return runtimes, nil
}

func failure(msg string) ExecutionResult {
	return ExecutionResult{
		Success: false,
		Stderr:  msg,
		Error:   msg,
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
