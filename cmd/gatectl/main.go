package main

import "github.com/spec-kit/ops-gate/cmd/gatectl/cmd"

func main() {
	cmd.Execute()
}
