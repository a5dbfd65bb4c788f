// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/zero-cli/zero/cmd/zero"

func main() {
	cmd.Execute()
}
