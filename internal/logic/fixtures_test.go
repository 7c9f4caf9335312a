package logic

import "combobox/internal/domain"

func leaf(label string) domain.Option[string] {
	return domain.NewOption(label, label)
}

// testOptions: one, two, three, group "four" (four.1..four.4), five
func testOptions() []domain.Option[string] {
	return []domain.Option[string]{
		leaf("one"),
		leaf("two"),
		leaf("three"),
		domain.NewGroup("four", "4",
			leaf("four.1"),
			leaf("four.2"),
			leaf("four.3"),
			leaf("four.4"),
		),
		leaf("five"),
	}
}

// nestedOptions: five groups holding four leaves
func nestedOptions() []domain.Option[string] {
	return []domain.Option[string]{
		domain.NewGroup("alpha", "g-alpha",
			domain.NewGroup("beta", "g-beta",
				leaf("b1"),
				domain.NewGroup("gamma", "g-gamma", leaf("c1")),
			),
			leaf("a1"),
		),
		domain.NewGroup("delta", "g-delta",
			domain.NewGroup("epsilon", "g-epsilon", leaf("e1")),
		),
	}
}

func labels(options []domain.Option[string]) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		out = append(out, o.DisplayLabel())
	}
	return out
}
