package crafting

// DefaultRecipes returns the built-in weapon recipes in priority order.
func DefaultRecipes() []*Recipe {
	return []*Recipe{
		{
			ID: "dagger", Name: "Dagger", Kind: WeaponMelee,
			Shape:  []Point{{0, 0}, {0, 1}},
			Damage: 6, AttackRate: 0.3, Durability: 12, Salvage: 1,
		},
		{
			ID: "short_sword", Name: "Short Sword", Kind: WeaponMelee,
			Shape:  []Point{{0, 0}, {1, 0}, {2, 0}},
			Damage: 10, AttackRate: 0.5, Durability: 15, Salvage: 1,
		},
		{
			ID: "spear", Name: "Spear", Kind: WeaponMelee,
			Shape:  []Point{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
			Damage: 14, AttackRate: 0.7, Durability: 20, Salvage: 2,
		},
		{
			ID: "axe", Name: "Axe", Kind: WeaponMelee,
			Shape:  []Point{{0, 0}, {1, 0}, {0, 1}, {0, 2}},
			Damage: 16, AttackRate: 0.9, Durability: 18, Salvage: 2,
		},
		{
			ID: "hammer", Name: "War Hammer", Kind: WeaponMelee,
			Shape:  []Point{{0, 0}, {1, 0}, {2, 0}, {1, 1}, {1, 2}},
			Damage: 24, AttackRate: 1.2, Durability: 25, Salvage: 3,
		},
		{
			ID: "crossbow", Name: "Crossbow", Kind: WeaponRanged,
			Shape:  []Point{{1, 0}, {0, 1}, {1, 1}, {2, 1}, {1, 2}},
			Damage: 12, AttackRate: 0.8, ProjectileSpeed: 14, Durability: 30, Salvage: 3,
		},
		{
			ID: "wand", Name: "Wand", Kind: WeaponRanged,
			Shape:  []Point{{0, 0}, {1, 1}, {2, 2}},
			Damage: 8, AttackRate: 0.6, ProjectileSpeed: 10, Durability: 20, Salvage: 1,
		},
	}
}

// DefaultCatalog builds a catalog from DefaultRecipes.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultRecipes()...)
	if err != nil {
		panic("crafting: invalid built-in recipes: " + err.Error())
	}
	return c
}
