package service

import "shareit/internal/database"

// pageFromParams переводит параметры from/size в номер страницы.
// Оба nil — пагинация выключена. Номер страницы считается целочисленным
// делением from/size, так что from, не кратный size, откатывается к началу
// своей страницы.
func pageFromParams(from, size *int) (*database.Page, error) {
	if from == nil || size == nil {
		return nil, nil
	}
	if *from < 0 {
		return nil, Invalid("from index must not be negative")
	}
	if *size < 1 {
		return nil, Invalid("page size must be positive")
	}
	return &database.Page{Number: *from / *size, Size: *size}, nil
}
