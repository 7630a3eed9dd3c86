package server

import "github.com/Luismorlan/newsdesk/model"

const LoginPath = "/accounts/login/"

var dashboards = map[model.Role]string{
	model.RoleManager:    "/news/publishers",
	model.RoleReader:     "/news/readers/articles",
	model.RoleEditor:     "/news/editors/articles",
	model.RoleJournalist: "/news/journalists/articles",
}

// Dashboard is the landing page of user, managers land on the publishers
// whatever their role.
func Dashboard(user *model.User) string {
	if path, ok := dashboards[user.PrimaryRole()]; ok {
		return path
	}
	return LoginPath
}
