// internal/domain/cart/reducer.go
package cart

// Transition returns the state that follows applying action to state. It
// never mutates its input and never fails: actions naming a product that is
// not in the cart leave the items unchanged.
func Transition(state State, action Action) State {
	var items []LineItem

	switch a := action.(type) {
	case AddToCart:
		items = addItem(state.Items, a)
	case RemoveFromCart:
		items = removeItems(state.Items, a.ProductID, a.SelectedColor)
	case UpdateQuantity:
		if a.Quantity <= 0 {
			return Transition(state, RemoveFromCart{ProductID: a.ProductID, SelectedColor: a.SelectedColor})
		}
		items = setQuantity(state.Items, a)
	case ClearCart:
		return Empty()
	default:
		return state.Clone()
	}

	return State{Items: items, Total: ComputeTotal(items)}
}

func addItem(current []LineItem, a AddToCart) []LineItem {
	items := make([]LineItem, 0, len(current)+1)
	found := false
	for _, item := range current {
		if item.is(a.Product.ID, a.SelectedColor) {
			item.Quantity++
			found = true
		}
		items = append(items, item)
	}
	if !found {
		items = append(items, LineItem{
			Product:       a.Product,
			SelectedColor: a.SelectedColor,
			Quantity:      1,
		})
	}
	return items
}

func removeItems(current []LineItem, productID int, color string) []LineItem {
	items := make([]LineItem, 0, len(current))
	for _, item := range current {
		if !item.selectedBy(productID, color) {
			items = append(items, item)
		}
	}
	return items
}

func setQuantity(current []LineItem, a UpdateQuantity) []LineItem {
	items := make([]LineItem, len(current))
	for i, item := range current {
		if item.selectedBy(a.ProductID, a.SelectedColor) {
			item.Quantity = a.Quantity
		}
		items[i] = item
	}
	return items
}
