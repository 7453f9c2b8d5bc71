// Package controller holds the demo request handlers.
package controller

import (
	"fmt"
	"net/http"

	"github.com/junioryono/stereo"
	"github.com/junioryono/stereo/internal/demo/service"
	"github.com/junioryono/stereo/mvc"
)

// UserController serves /user/query?name=&age=.
type UserController struct {
	stereo.Controller
	mvc.RequestMapping `path:"/user"`

	userService service.UserService `autowired:"userService"`
}

func (c *UserController) RequestMappings() []mvc.Mapping {
	return []mvc.Mapping{
		{Path: "/query", Method: "Query", Params: []string{"name", "age"}},
	}
}

func (c *UserController) Query(w http.ResponseWriter, name string, age int) error {
	_, err := fmt.Fprint(w, c.userService.Query(name, age))
	return err
}

func init() {
	stereo.Register[UserController]()
}
