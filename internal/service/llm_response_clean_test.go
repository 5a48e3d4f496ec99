package service

import "testing"

func TestCleanMedicineList(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "ロキソニン\nムコダイン", want: "ロキソニン\nムコダイン"},
		{name: "bullets", in: "- ロキソニン\n・ムコダイン\n1. アレグラ", want: "ロキソニン\nムコダイン\nアレグラ"},
		{name: "fences and tags", in: "```\n<output>\nタミフル\n</output>\n```", want: "タミフル"},
		{name: "duplicates and blanks", in: "\uFEFFロキソニン\n\n ロキソニン \nカロナール", want: "ロキソニン\nカロナール"},
		{name: "empty", in: "   ", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanMedicineList(tc.in); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
