package github

import (
	"encoding/json"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// Env is the build context exported by the GitHub Actions runner.
type Env struct {
	Owner       string
	Repo        string
	SHA         string
	HeadRef     string
	APIURL      string
	StepSummary string
	Debug       bool
	Actions     bool
}

// IsFork reports whether the run is for a pull request. GITHUB_HEAD_REF is
// only set for pull_request events, which are the runs that receive a
// read-only token when the head repository is a fork.
func (e Env) IsFork() bool {
	return e.HeadRef != ""
}

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// LoadEnv reads the runner environment from the process.
func LoadEnv() (Env, error) {
	return LoadEnvFrom(os.LookupEnv)
}

// LoadEnvFrom reads the runner environment through lookup. The repository
// falls back to the git remote and the commit to HEAD when the runner
// variables are absent.
func LoadEnvFrom(lookup LookupFunc) (Env, error) {
	get := func(k string) string {
		v, _ := lookup(k)
		return strings.TrimSpace(v)
	}

	env := Env{
		SHA:         get("GITHUB_SHA"),
		HeadRef:     get("GITHUB_HEAD_REF"),
		APIURL:      get("GITHUB_API_URL"),
		StepSummary: get("GITHUB_STEP_SUMMARY"),
		Debug:       get("RUNNER_DEBUG") == "1",
		Actions:     get("GITHUB_ACTIONS") == "true",
	}

	if repo := get("GITHUB_REPOSITORY"); repo != "" {
		owner, name, ok := strings.Cut(repo, "/")
		if !ok || owner == "" || name == "" {
			return Env{}, errors.Newf("malformed GITHUB_REPOSITORY %q", repo)
		}
		env.Owner, env.Repo = owner, name
	} else {
		owner, name, err := DetectRepo()
		if err != nil {
			return Env{}, errors.WithHint(err, "set GITHUB_REPOSITORY or pass --owner and --repo")
		}
		env.Owner, env.Repo = owner, name
	}

	if path := get("GITHUB_EVENT_PATH"); path != "" {
		sha, err := pullRequestHeadSHA(path)
		if err != nil {
			return Env{}, err
		}
		if sha != "" {
			env.SHA = sha
		}
	}

	if env.SHA == "" {
		out, err := exec.Command("git", "rev-parse", "HEAD").Output()
		if err != nil {
			return Env{}, errors.Wrap(err, "cannot determine commit: git rev-parse HEAD failed")
		}
		env.SHA = strings.TrimSpace(string(out))
	}

	return env, nil
}

// pullRequestHeadSHA returns pull_request.head.sha from the event payload,
// or "" for events without a pull request.
func pullRequestHeadSHA(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "reading event payload")
	}
	var event struct {
		PullRequest *struct {
			Head struct {
				SHA string `json:"sha"`
			} `json:"head"`
		} `json:"pull_request"`
	}
	if err := json.Unmarshal(data, &event); err != nil {
		return "", errors.Wrap(err, "parsing event payload")
	}
	if event.PullRequest == nil {
		return "", nil
	}
	return event.PullRequest.Head.SHA, nil
}

var (
	httpsRemoteRe = regexp.MustCompile(`https?://[^/]+/([^/]+)/([^/.\s]+)`)
	sshRemoteRe   = regexp.MustCompile(`[^@]+@[^:]+:([^/]+)/([^/.\s]+)`)
)

// DetectRepo parses owner/repo from the git remote origin URL.
func DetectRepo() (owner, repo string, err error) {
	out, err := exec.Command("git", "remote", "get-url", "origin").Output()
	if err != nil {
		return "", "", errors.Wrap(err, "cannot detect repo: git remote get-url origin failed")
	}
	return ParseRemoteURL(strings.TrimSpace(string(out)))
}

// ParseRemoteURL extracts owner/repo from a git remote URL.
func ParseRemoteURL(url string) (owner, repo string, err error) {
	url = strings.TrimSuffix(url, ".git")

	if m := httpsRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	if m := sshRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	return "", "", errors.Newf("cannot parse owner/repo from remote URL: %s", url)
}
