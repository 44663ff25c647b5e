package domain

import "testing"

func TestNavigationFor_AllRolesNonEmpty(t *testing.T) {
	for _, role := range []Role{RoleInstructor, RoleCoordinator, RoleAdmin} {
		entries := NavigationFor(role)
		if len(entries) == 0 {
			t.Errorf("角色 %s 导航表不应为空", role)
		}
		for _, e := range entries {
			if e.Label == "" || e.Path == "" || e.Icon == "" {
				t.Errorf("角色 %s 存在空字段条目: %+v", role, e)
			}
		}
	}
}

func TestNavigationFor_UnknownRoleFallsBackToAnonymous(t *testing.T) {
	entries := NavigationFor(Role(""))
	if len(entries) != 2 {
		t.Fatalf("未认证表期望 2 条（首页+登录），实际 %d", len(entries))
	}
	if entries[1].Path != "/login" {
		t.Errorf("期望登录入口 /login，实际 %s", entries[1].Path)
	}
}

func TestNavigationFor_NoCrossRolePaths(t *testing.T) {
	// 讲师不应看到管理端的用户管理入口
	for _, e := range NavigationFor(RoleInstructor) {
		if e.Path == "/usuarios" {
			t.Error("讲师导航不应包含 /usuarios")
		}
	}
	// 协调员同样不应看到用户管理入口
	for _, e := range NavigationFor(RoleCoordinator) {
		if e.Path == "/usuarios" {
			t.Error("协调员导航不应包含 /usuarios")
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"instructor", "coordinator", "admin"} {
		if _, ok := ParseRole(s); !ok {
			t.Errorf("ParseRole(%s) 应成功", s)
		}
	}
	if _, ok := ParseRole("leader"); ok {
		t.Error("未知角色应返回 false")
	}
}
