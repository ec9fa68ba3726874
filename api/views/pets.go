package views

import (
	"fmt"
	"strings"

	"github.com/petadopt/petadopt-backend/internal/pets"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func petList(list []pets.PetDTO, admin bool) Node {
	if len(list) == 0 {
		return P(Class("empty"), Text("No pets to show right now."))
	}
	cards := make([]Node, 0, len(list))
	for _, pet := range list {
		cards = append(cards, petCard(pet, admin))
	}
	return Div(Class("pet-grid"), Group(cards))
}

func petCard(pet pets.PetDTO, admin bool) Node {
	facts := []Node{
		fact("Species", string(pet.Species)),
		fact("Breed", pet.Breed),
		fact("Age", pet.Age),
		fact("Gender", pet.Gender),
		fact("Vaccinated", yesNo(pet.Vaccinated)),
		fact("Spayed/Neutered", yesNo(pet.SpayedNeutered)),
	}

	var image Node
	if pet.ImageURL != "" {
		image = Img(Src(pet.ImageURL), Alt(pet.Name), Attr("loading", "lazy"))
	}

	var description Node
	if pet.Description != "" {
		description = P(Class("description"), Text(pet.Description))
	}

	var actions Node
	if admin {
		actions = Footer(
			A(Href(fmt.Sprintf("/pet/%d/edit", pet.ID)), Attr("role", "button"), Class("secondary"), Text("Edit")),
			Form(Method("post"), Action(fmt.Sprintf("/pet/%d/delete", pet.ID)), Class("inline"),
				Button(Type("submit"), Class("contrast"), Text("Delete")),
			),
		)
	}

	return Article(
		Class("pet-card status-"+string(pet.Status)),
		ID(fmt.Sprintf("pet-%d", pet.ID)),
		Header(
			H3(Text(pet.Name)),
			Span(Class("status"), Text(pet.Status.Label())),
		),
		image,
		Dl(Group(facts)),
		description,
		actions,
	)
}

// fact renders one definition pair; blank values are skipped.
func fact(label, value string) Node {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return Group{Dt(Text(label)), Dd(Text(value))}
}

func yesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}
