// Command routeplanner plans last-mile delivery routes: it clusters
// orders into driver-sized groups, sequences the groups and the stops
// within them, and reports any obstacle crossings along the route.
package main

import "github.com/lastmile-route/routeplanner/internal/cmd"

func main() {
	cmd.Execute()
}
