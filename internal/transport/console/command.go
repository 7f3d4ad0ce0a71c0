//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package console

// Command is an entry of the operator menu. Menu position follows declaration order.
// ENUM(intersections,inactive-group,inactive-all,exclusive,remove,reload,exit)
type Command string

var menuLabels = map[Command]string{
	CommandIntersections: "Report group intersections",
	CommandInactiveGroup: "Report inactive users in one group",
	CommandInactiveAll:   "Report inactive users across all groups",
	CommandExclusive:     "Report users only in one group",
	CommandRemove:        "Remove users from the community",
	CommandReload:        "Reload the community",
	CommandExit:          "Exit",
}
