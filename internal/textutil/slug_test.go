package textutil

import "testing"

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"2026-03-01_why-cats_ab12cd34": "2026-03-01_why-cats_ab12cd34",
		"  Café Società ":              "cafe_societa",
		"a/b\\c:d":                     "a_b_c_d",
		"***":                          "unknown",
		"":                             "unknown",
		"Hello   World!":               "hello_world",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}
