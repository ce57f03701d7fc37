package channelkey

import "testing"

// 频道键必须与参数顺序无关，双方各自计算也要收敛到同一个键
func TestDeriveOrderIndependent(t *testing.T) {
	cases := []struct {
		a, b string
		want string
	}{
		{"user_a", "user_b", "user_a-user_b"},
		{"user_b", "user_a", "user_a-user_b"},
		{"680a1b2c3d4e5f6a7b8c9d0e", "5f9a1b2c3d4e5f6a7b8c9d0e", "5f9a1b2c3d4e5f6a7b8c9d0e-680a1b2c3d4e5f6a7b8c9d0e"},
	}
	for _, tc := range cases {
		if got := Derive(tc.a, tc.b); got != tc.want {
			t.Errorf("Derive(%q, %q) = %q, want %q", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestDeriveSymmetric(t *testing.T) {
	if Derive("m1", "s1") != Derive("s1", "m1") {
		t.Fatal("Derive 对参数顺序不对称")
	}
}
