// Package service holds the demo service beans.
package service

import (
	"fmt"

	"github.com/junioryono/stereo"
	"github.com/junioryono/stereo/internal/demo/dao"
)

type BookService interface {
	Action() string
}

// BookServiceImpl receives its BookDao by type.
type BookServiceImpl struct {
	stereo.Service `name:"bookService"`

	bookDao dao.BookDao `autowired:""`
}

func (s *BookServiceImpl) Action() string {
	if s.bookDao == nil {
		return "no book to read"
	}
	return s.bookDao.Read()
}

type UserService interface {
	Query(name string, age int) string
}

type UserServiceImpl struct {
	stereo.Service `name:"userService"`
}

func (*UserServiceImpl) Query(name string, age int) string {
	return fmt.Sprintf("name=%s age=%d", name, age)
}

func init() {
	stereo.Register[BookServiceImpl](stereo.Implements[BookService]())
	stereo.Register[UserServiceImpl](stereo.Implements[UserService]())
}
