// Command kcenter runs the streaming metric k-center ladder driver over one
// of four input regimes: sliding window, fully adversarial, packed fully
// adversarial, or trajectories under Hausdorff distance.
package main

import "github.com/streamkcenter/kcenter/cmd/kcenter/cmd"

func main() {
	cmd.Execute()
}
