package glances

// Category names one group of related metrics, matching the Glances REST API
// sub-resource of the same name.
type Category string

const (
	CategoryCPU          Category = "cpu"
	CategoryMem          Category = "mem"
	CategoryMemSwap      Category = "memswap"
	CategoryLoad         Category = "load"
	CategoryNetwork      Category = "network"
	CategoryDiskIO       Category = "diskio"
	CategoryFS           Category = "fs"
	CategorySensors      Category = "sensors"
	CategoryProcessList  Category = "processlist"
	CategoryProcessCount Category = "processcount"
	CategoryQuicklook    Category = "quicklook"
	CategoryUptime       Category = "uptime"
	CategoryAlert        Category = "alert"
	CategoryIP           Category = "ip"
	CategoryConnections  Category = "connections"
	CategoryGPU          Category = "gpu"
	CategoryContainers   Category = "containers"
	CategoryPluginsList  Category = "pluginslist"
	CategoryVersion      Category = "version"
	CategorySystem       Category = "system"
	CategoryAll          Category = "all"
)

// topLevelShape describes the expected top-level JSON shape of a category's payload.
type topLevelShape string

const (
	shapeObject topLevelShape = "object"
	shapeArray  topLevelShape = "array"
	// shapeAny means no expectation; scalars pass through (e.g. uptime is a string).
	shapeAny topLevelShape = "any"
)

// categoryShapes records the known top-level shapes of the Glances v4 API.
// Categories absent from the map are treated as shapeAny.
var categoryShapes = map[Category]topLevelShape{
	CategoryCPU:          shapeObject,
	CategoryMem:          shapeObject,
	CategoryMemSwap:      shapeObject,
	CategoryLoad:         shapeObject,
	CategoryNetwork:      shapeArray,
	CategoryDiskIO:       shapeArray,
	CategoryFS:           shapeArray,
	CategoryProcessList:  shapeArray,
	CategoryProcessCount: shapeObject,
	CategoryQuicklook:    shapeObject,
	CategoryAlert:        shapeArray,
	CategoryIP:           shapeObject,
	CategoryConnections:  shapeObject,
	CategoryGPU:          shapeArray,
	CategoryContainers:   shapeArray,
	CategoryPluginsList:  shapeArray,
	CategorySystem:       shapeObject,
	CategoryAll:          shapeObject,
}

// SnapshotCategories are the categories fetched by the aggregate snapshot operation.
var SnapshotCategories = []Category{
	CategoryCPU,
	CategoryMem,
	CategoryMemSwap,
	CategoryLoad,
	CategoryNetwork,
	CategoryDiskIO,
	CategoryFS,
	CategoryUptime,
	CategorySystem,
}

func shapeOf(c Category) topLevelShape {
	if s, ok := categoryShapes[c]; ok {
		return s
	}
	return shapeAny
}
