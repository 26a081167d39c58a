// Command repo-knowledge indexes a repository and serves token-efficient,
// structurally-informed code context via the internal/cli verbs.
package main

import "github.com/mvp-joe/repo-knowledge/internal/cli"

func main() {
	cli.Execute()
}
