package models

// MenuItem позиция меню. После сидирования не меняется
type MenuItem struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	Image       string  `json:"image"`
}

const HotPicksCategory = "Hot Picks"

type Category struct { // категория с позициями для вывода меню
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}
