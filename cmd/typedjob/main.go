// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package main

import (
	"os"

	"github.com/vulntor/typedjob/cmd/typedjob/commands"
)

func main() {
	if err := commands.Execute(commands.NewCommand()); err != nil {
		os.Exit(1)
	}
}
