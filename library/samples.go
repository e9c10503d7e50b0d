package library

// SampleBooks returns fresh copies of the books loaded by Seed.
func SampleBooks() []*Book {
	return []*Book{
		{Title: "Nada", Author: "Carmen Laforet", Year: 1944, Genres: []string{"novela"}, Pages: 320},
		{Title: "Patria", Author: "Fernando Aramburu", Year: 2016, Genres: []string{"novela"}, Pages: 648},
		{Title: "Los girasoles ciegos", Author: "Alberto Méndez", Year: 2004, Genres: []string{"relatos"}, Pages: 160},
		{Title: "La sombra del viento", Author: "Carlos Ruiz Zafón", Year: 2001, Genres: []string{"novela", "misterio"}, Pages: 576},
		{Title: "El juego del ángel", Author: "Carlos Ruiz Zafón", Year: 2008, Genres: []string{"novela", "misterio"}, Pages: 672},
		{Title: "Cien años de soledad", Author: "Gabriel García Márquez", Year: 1967, Genres: []string{"novela"}, Pages: 471},
		{Title: "Crónica de una muerte anunciada", Author: "Gabriel García Márquez", Year: 1981, Genres: []string{"novela"}, Pages: 122},
		{Title: "Ficciones", Author: "Jorge Luis Borges", Year: 1944, Genres: []string{"relatos"}, Pages: 224},
		{Title: "Rayuela", Author: "Julio Cortázar", Year: 1963, Genres: []string{"novela"}, Pages: 736},
		{Title: "Los renglones torcidos de Dios", Author: "Torcuato Luca de Tena", Year: 1979, Genres: []string{"novela", "misterio"}, Pages: 512},
	}
}

// SampleAuthors returns fresh copies of the authors loaded by Seed.
func SampleAuthors() []*Author {
	return []*Author{
		{Name: "Carmen Laforet", Country: "España", Born: 1921},
		{Name: "Fernando Aramburu", Country: "España", Born: 1959},
		{Name: "Alberto Méndez", Country: "España", Born: 1941},
		{Name: "Carlos Ruiz Zafón", Country: "España", Born: 1964},
		{Name: "Gabriel García Márquez", Country: "Colombia", Born: 1927},
		{Name: "Jorge Luis Borges", Country: "Argentina", Born: 1899},
		{Name: "Julio Cortázar", Country: "Argentina", Born: 1914},
		{Name: "Torcuato Luca de Tena", Country: "España", Born: 1923},
	}
}
