package apihelpers

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// WriteRoutesToFile dumps the registered routes, one "METHOD\tPATH" line per
// route sorted by path. Debug-mode helper for diffing the route table.
func WriteRoutesToFile(router *gin.Engine, filename string) {
	routes := router.Routes()
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	var sb strings.Builder
	for _, route := range routes {
		fmt.Fprintf(&sb, "%s\t%s\n", route.Method, route.Path)
	}

	if err := os.WriteFile(filename, []byte(sb.String()), 0644); err != nil {
		log.Fatal(err)
	}
}
